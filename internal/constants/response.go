package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Standard Response Field Keys
const (
	ResponseFieldSuccess = "success"
	ResponseFieldMessage = "message"
	ResponseFieldData    = "data"
	ResponseFieldErrors  = "errors"

	// Pagination fields
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPageTotal = "page_total"
)

// Pagination defaults
const (
	QueryParamPage  = "page"
	QueryParamLimit = "limit"
	DefaultPage     = "1"
	DefaultLimit    = "10"
	MinPage         = 1
	MinLimit        = 1
	MaxLimit        = 100
)

// PaginationParams holds parsed pagination values.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePaginationParams parses page and limit query parameters with defaults.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	pageStr := c.DefaultQuery(QueryParamPage, DefaultPage)
	limitStr := c.DefaultQuery(QueryParamLimit, DefaultLimit)

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Response Format Functions

// BuildSuccessResponse builds the uniform success envelope.
func BuildSuccessResponse(message string, data any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
	if data != nil {
		response[ResponseFieldData] = data
	}
	return response
}

// BuildErrorResponse builds the uniform failure envelope.
func BuildErrorResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldMessage: message,
	}
}

// BuildValidationErrorResponse builds a 400 envelope carrying field-level errors.
func BuildValidationErrorResponse(message string, errors any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldMessage: message,
		ResponseFieldErrors:  errors,
	}
}

// BuildListResponse wraps a paginated collection in the success envelope.
func BuildListResponse(total int64, page int, pageTotal int, data any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess:   true,
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPageTotal: pageTotal,
		ResponseFieldData:      data,
	}
}
