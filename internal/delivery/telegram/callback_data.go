package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/study-review-bot/internal/service"
)

// Callback action constants.
const (
	actionPostpone = "postpone"
	actionReview   = "review"
	actionReset    = "reset"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
	}
}

// buildPostponeCallback builds callback data for postponing a review state by one day.
func buildPostponeCallback(stateID int64) string {
	return callbackData{
		Action: actionPostpone,
		Params: []string{strconv.FormatInt(stateID, 10)},
	}.encode()
}

// buildReviewCallback builds callback data for re-rendering the due list.
func buildReviewCallback(order service.DueSort) string {
	return callbackData{
		Action: actionReview,
		Params: []string{string(order)},
	}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

// parsePostponeID extracts the review state ID from postpone callback params.
func parsePostponeID(params []string) (int64, bool) {
	if len(params) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseDueSort reads the sort order from review callback params.
func parseDueSort(params []string) service.DueSort {
	if len(params) == 1 && service.DueSort(params[0]) == service.SortSubject {
		return service.SortSubject
	}
	return service.SortOverdue
}
