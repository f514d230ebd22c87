package utils

import "clearpay-api/internal/constant"

// Response is the envelope for JSON endpoints. The callback/close endpoints
// never use it: they answer with the bridge page regardless of outcome.
type Response struct {
	Code    int         `json:"code"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

func Success(data interface{}) Response {
	return Response{
		Code: constant.CodeSuccess,
		Msg:  "success",
		Data: data,
	}
}

func Error(code int) Response {
	if msg, exists := constant.GetErrorMessage(code); exists {
		return Response{Code: code, Msg: msg}
	}
	return Response{Code: code, Msg: "unknown error"}
}

func ErrorWithTrace(code int, traceID string) Response {
	r := Error(code)
	r.TraceID = traceID
	return r
}

func CustomError(code int, message string) Response {
	return Response{Code: code, Msg: message}
}
