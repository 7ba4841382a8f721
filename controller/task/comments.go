package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/model"
)

func AddComment(c *gin.Context, deps *controller.Deps) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	comment, err := deps.Tasks.AddComment(c, middleware.CurrentUser(c), c.Param("id"), req.Text)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func DeleteComment(c *gin.Context, deps *controller.Deps) {
	err := deps.Tasks.DeleteComment(c, middleware.CurrentUser(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// AddAttachment records a file already uploaded elsewhere; only its
// metadata and URL are stored on the task.
func AddAttachment(c *gin.Context, deps *controller.Deps) {
	var req dto.AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	attachment, err := deps.Tasks.AddAttachment(c, middleware.CurrentUser(c), c.Param("id"), model.Attachment{
		Name: req.Name,
		URL:  req.URL,
		Type: req.Type,
		Size: req.Size,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

func DeleteAttachment(c *gin.Context, deps *controller.Deps) {
	err := deps.Tasks.DeleteAttachment(c, middleware.CurrentUser(c), c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
