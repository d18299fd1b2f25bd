package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
