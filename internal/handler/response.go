package handler

import (
	"errors"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/httperror"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/middleware"
)

// writeError: 오류를 ErrorResponse 형태로 씁니다. 알 수 없는 오류는 500 으로 가려집니다.
func writeError(c *gin.Context, err error) {
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

// bindJSON: 본문 파싱이나 binding 태그 검증에 실패하면 422 를 쓰고 false 를 반환합니다.
func bindJSON(c *gin.Context, out any) bool {
	return bindBody(c, out, false)
}

// bindOptionalJSON: 본문이 아예 없으면 out 을 건드리지 않고 통과시킵니다.
func bindOptionalJSON(c *gin.Context, out any) bool {
	return bindBody(c, out, true)
}

func bindBody(c *gin.Context, out any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(out)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	writeError(c, httperror.NewValidationError(err))
	return false
}

// previewText: 로그에 남길 앞부분만 룬 단위로 자릅니다.
func previewText(value string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(value) <= maxRunes {
		return value
	}
	cut, n := 0, 0
	for i := range value {
		if n == maxRunes {
			cut = i
			break
		}
		n++
	}
	return value[:cut] + "..."
}
