// Package response writes the JSON envelope every endpoint returns.
// Failures carry an errcode constant in the body; the HTTP status stays
// 200 so clients branch on the envelope code alone.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

type apiError struct {
	code uint32
	msg  string
}

func (e apiError) Error() string {
	return e.msg
}

func (e apiError) Code() uint32 {
	return e.code
}

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, 200, apiError{code: uint32(code), msg: message})
}
