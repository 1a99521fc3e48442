package httpapi

// Result 与前端 API 客户端约定一致的响应包装
// - success: 业务层面成功与否
// - message: 人类可读消息（校验失败时固定为 "Validation failed"）
// - errors: 校验错误列表（逐条原样展示给用户）
// - result: 业务数据
type Result struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Result  any      `json:"result,omitempty"`
}

func Ok(result any) Result {
	return Result{Success: true, Message: "ok", Result: result}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

func FailValidation(errs []string) Result {
	return Result{Success: false, Message: "Validation failed", Errors: errs}
}
