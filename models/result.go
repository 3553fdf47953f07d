package models

// Result 统一响应结构体。业务失败也走 200 返回，Code 区分成功与否，
// 只有认证中间件会直接短路 401。
type Result struct {
	Code int         `json:"code"` // 1 成功，0 失败
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// Success 构建成功响应
func Success(data interface{}) Result {
	return Result{Code: 1, Data: data}
}

// SuccessMsg 构建带提示信息的成功响应
func SuccessMsg(msg string) Result {
	return Result{Code: 1, Msg: msg}
}

// Error 构建失败响应
func Error(msg string) Result {
	return Result{Code: 0, Msg: msg}
}

// OK 判断是否为成功响应
func (r Result) OK() bool {
	return r.Code == 1
}
