package main

import (
	"net/http"

	"github.com/protomem/medicall/internal/notify"
	"github.com/protomem/medicall/internal/request"
	"github.com/protomem/medicall/internal/response"
)

// Handle List Notifications
// @Summary The caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param isRead query bool false "Read state"
// @Success 200 {array} model.Notification
// @Router /notifications [get]
func (app *application) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	isRead, err := optionalBoolQueryParams(r, "isRead")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	notifications, err := app.inbox.ListMine(r.Context(), callerFrom(r), isRead, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, notifications); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Get Notification
// @Summary One of the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationId path int true "Notification ID"
// @Success 200 {object} model.Notification
// @Failure 404 {object} any "Not found"
// @Router /notifications/{notificationId} [get]
func (app *application) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "notificationId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	notification, err := app.inbox.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, notification); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Mark Notification Read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationId path int true "Notification ID"
// @Success 200 {object} response.JSONObject
// @Router /notifications/{notificationId}/read [post]
func (app *application) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "notificationId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	if _, err := app.inbox.MarkRead(r.Context(), callerFrom(r), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"message": "Notification marked as read"}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Mark All Notifications Read
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.JSONObject
// @Router /notifications/read-all [post]
func (app *application) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	updated, err := app.inbox.MarkAllRead(r.Context(), callerFrom(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{
		"message":      "All notifications marked as read",
		"updatedCount": updated,
	}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Unread Count
// @Summary Number of unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.JSONObject
// @Router /notifications/unread-count [get]
func (app *application) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := app.inbox.UnreadCount(r.Context(), callerFrom(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"unreadCount": count}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Delete Notification
// @Summary Delete a notification
// @Tags notifications
// @Security BearerAuth
// @Param notificationId path int true "Notification ID"
// @Success 204 "No Content"
// @Router /notifications/{notificationId} [delete]
func (app *application) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "notificationId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	if err := app.inbox.Delete(r.Context(), callerFrom(r), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Handle Get Preferences
// @Summary The caller's notification preferences
// @Description Created with defaults on first access
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.NotificationPreference
// @Router /notifications/preferences [get]
func (app *application) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	pref, err := app.inbox.Preferences(r.Context(), callerFrom(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, pref); err != nil {
		app.serverError(w, r, err)
	}
}

type requestPreferences struct {
	EmailNotifications       *bool `json:"emailNotifications"`
	PushNotifications        *bool `json:"pushNotifications"`
	SMSNotifications         *bool `json:"smsNotifications"`
	ShiftNotifications       *bool `json:"shiftNotifications"`
	ApplicationNotifications *bool `json:"applicationNotifications"`
	PaymentNotifications     *bool `json:"paymentNotifications"`
	SystemNotifications      *bool `json:"systemNotifications"`
}

// Handle Update Preferences
// @Summary Change notification preferences
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestPreferences true "Toggles to change"
// @Success 200 {object} model.NotificationPreference
// @Router /notifications/preferences [put]
func (app *application) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var input requestPreferences
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	pref, err := app.inbox.UpdatePreferences(r.Context(), callerFrom(r), notify.PreferencesPatch(input))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, pref); err != nil {
		app.serverError(w, r, err)
	}
}
