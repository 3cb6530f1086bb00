package controllers

import (
	"github.com/SiRoHK/MiniAnazinClone/apperrors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps an application error onto an HTTP response. Internal
// failures are logged with their cause; the client only sees a generic
// message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindInternal {
		log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr),
		)
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
