package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/errs"
)

// WriteError 把业务错误映射成 HTTP 状态码：
// - 校验失败            -> 400
// - 记录不存在          -> 404
// - 唯一约束冲突        -> 409
// - 状态机不允许的流转  -> 409
// - 其余               -> 500（不向外泄露内部细节）
func WriteError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An internal server error occurred"})
	}
}
