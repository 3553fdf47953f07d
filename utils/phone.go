package utils

import "regexp"

// 国内手机号格式
var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ValidPhone 校验手机号格式
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
