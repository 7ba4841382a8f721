package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/model"
	"teamboard/services"
)

func NotificationController(router *gin.Engine, deps *controller.Deps) {
	routes := router.Group("/notification", deps.Auth()...)
	{
		routes.POST("/subscribe", func(c *gin.Context) {
			Subscribe(c, deps)
		})
		routes.DELETE("/subscribe", func(c *gin.Context) {
			Unsubscribe(c, deps)
		})
		routes.POST("/send", func(c *gin.Context) {
			SendNotification(c, deps)
		})
	}
}

// Subscribe registers an FCM token for the caller's devices.
func Subscribe(c *gin.Context, deps *controller.Deps) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	if err := deps.Store.Subscriptions.AddToken(c, middleware.CurrentUser(c).ID, req.Token); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed successfully"})
}

func Unsubscribe(c *gin.Context, deps *controller.Deps) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	if err := deps.Store.Subscriptions.RemoveToken(c, middleware.CurrentUser(c).ID, req.Token); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed successfully"})
}

// SendNotification broadcasts a message. Superusers may address anyone; a
// department admin may address their department, or users inside it.
// Delivery happens in the background.
func SendNotification(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	if req.DepartmentID == "" && len(req.UserIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either user_ids or department_id is required"})
		return
	}

	recipients := append([]string{}, req.UserIDs...)
	if req.DepartmentID != "" {
		dept, err := deps.Store.Departments.Get(c, req.DepartmentID)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		if !services.Authorize(user, dept, nil).CanManage() || !withinDepartment(dept, req.UserIDs) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		if len(req.UserIDs) == 0 {
			recipients = append(append(recipients, dept.Admins...), dept.Members...)
		}
	} else if !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	recipients = dedupe(recipients)
	deps.Notifier.Notify(recipients, services.Message{
		Title: req.Title,
		Body:  req.Body,
		Link:  req.Link,
		Data:  map[string]string{"departmentId": req.DepartmentID},
	})
	c.JSON(http.StatusAccepted, gin.H{"message": "Notification queued", "recipients": len(recipients)})
}

func withinDepartment(dept *model.Department, userIDs []string) bool {
	for _, id := range userIDs {
		if !dept.IsAdmin(id) && !dept.IsMember(id) {
			return false
		}
	}
	return true
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
