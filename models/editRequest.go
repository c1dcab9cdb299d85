package models

import "time"

// Edit request types. A (user, date) pair can hold one request of each type
// at a time, enforced by the unique key on (user_id, req_date, request_type).
const (
	RequestTypeEdit   = "edit"
	RequestTypeDelete = "delete"
)

// Edit request lifecycle states.
//
// pending -> approved -> used
//         -> rejected
//
// "used" is terminal and is reached only when the user consumes an approval
// by performing the now-permitted direct write. An approval covers exactly
// one such write; afterwards the date is gated again.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
	RequestStatusUsed     = "used"
)

type EditRequest struct {
	Edit_Request_ID int       `json:"editRequestId" goqu:"skipinsert"`
	User_ID         int       `json:"userId"`
	Req_Date        time.Time `json:"reqDate"`
	Request_Type    string    `json:"requestType"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

// EditRequestCreate is the request body for POST /edit-requests.
type EditRequestCreate struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// EditRequestResponse is the admin decision body for
// PATCH /admin/edit-requests/:edit_request_id.
type EditRequestResponse struct {
	Action string `json:"action"` // approved | rejected
}

// EditRequestBulkResponse is the body for POST /admin/edit-requests/bulk.
type EditRequestBulkResponse struct {
	Request_IDs []int  `json:"requestIds"`
	Action      string `json:"action"`
}
