package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/media-gateway/internal/domain/failure"
	"github.com/janhq/media-gateway/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code       string         `json:"code,omitempty"` // UUID from PlatformError
	Error      string         `json:"error"`
	Message    string         `json:"message,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Retryable  bool           `json:"retryable"`
	Operation  string         `json:"operation,omitempty"`
	Key        string         `json:"key,omitempty"`
	Offset     *int64         `json:"offset,omitempty"`
	PartNumber int32          `json:"part_number,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// StatusFor returns the HTTP status an error maps onto.
func StatusFor(err error) int {
	var uploadErr *failure.Error
	if errors.As(err, &uploadErr) {
		return uploadErr.HTTPStatus()
	}
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)
	}
	return http.StatusInternalServerError
}

// BuildErrorResponse converts err into the response body. message is used
// when err carries no user-facing message of its own.
func BuildErrorResponse(c *gin.Context, err error, message string) ErrorResponse {
	requestID := platformerrors.RequestIDFromContext(c.Request.Context())

	var uploadErr *failure.Error
	if errors.As(err, &uploadErr) {
		resp := ErrorResponse{
			Error:      uploadErr.Message,
			Message:    uploadErr.Message,
			Reason:     uploadErr.Reason.String(),
			Retryable:  uploadErr.Retryable(),
			Operation:  uploadErr.Op,
			Key:        uploadErr.Key,
			PartNumber: uploadErr.PartNumber,
			Details:    uploadErr.Details,
			RequestID:  requestID,
		}
		if uploadErr.Op != "" {
			offset := uploadErr.Offset
			resp.Offset = &offset
		}
		return resp
	}

	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		errorMessage := platformErr.Message
		if errorMessage == "" {
			errorMessage = message
		}
		if platformErr.RequestID != "" {
			requestID = platformErr.RequestID
		}
		return ErrorResponse{
			Code:      platformErr.UUID,
			Error:     errorMessage,
			Message:   errorMessage,
			Reason:    string(platformErr.Type),
			Retryable: platformErr.Type == platformerrors.ErrorTypeUnavailable,
			RequestID: requestID,
		}
	}

	return ErrorResponse{
		Error:     message,
		Message:   message,
		Reason:    string(platformerrors.ErrorTypeInternal),
		RequestID: requestID,
	}
}

// HandleError writes err as a JSON error response and aborts the request.
// Server-side platform errors are logged through the request logger.
func HandleError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	status := StatusFor(err)
	var platformErr *platformerrors.PlatformError
	if status >= http.StatusInternalServerError && errors.As(err, &platformErr) {
		platformerrors.LogError(*zerolog.Ctx(c.Request.Context()), platformErr)
	}
	c.AbortWithStatusJSON(status, BuildErrorResponse(c, err, message))
}

// HandleNewError creates a new typed error at the handler layer and handles it
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, uuid)
	HandleError(c, err, message)
}
