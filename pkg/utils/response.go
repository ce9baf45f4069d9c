package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"intranet-portal-backend/pkg/apperrors"
)

// APIResponse 标准API响应结构
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError 错误信息结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Meta 分页元数据
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

func writeEnvelope(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// WriteJSONResponse 写入JSON响应
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	writeEnvelope(w, statusCode, APIResponse{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	})
}

// WriteSuccessResponse 写入成功响应
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusOK, data)
}

// WriteCreatedResponse 写入创建成功响应
func WriteCreatedResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusCreated, data)
}

// WriteListResponse 写入带分页信息的列表
func WriteListResponse(w http.ResponseWriter, data interface{}, limit, offset, count int) {
	writeEnvelope(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &Meta{Limit: limit, Offset: offset, Count: count},
	})
}

// WriteErrorResponseWithCode 写入带错误代码的错误响应
func WriteErrorResponseWithCode(w http.ResponseWriter, statusCode int, code, message string) {
	writeEnvelope(w, statusCode, APIResponse{
		Success: false,
		Message: message,
		Error:   &APIError{Code: code, Message: message},
	})
}

// WriteError maps err onto its status code and error envelope.
// Storage failures never leak driver text to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal storage error"
	}

	apiErr := &APIError{Code: apperrors.Code(err), Message: message}
	var missing *apperrors.MissingRequiredFieldError
	var invalid *apperrors.InvalidFieldError
	switch {
	case errors.As(err, &missing):
		apiErr.Field = missing.Field
	case errors.As(err, &invalid):
		apiErr.Field = invalid.Field
	case errors.Is(err, apperrors.ErrMissingCategoryForHR):
		apiErr.Field = "categoryId"
	}

	writeEnvelope(w, status, APIResponse{Success: false, Message: message, Error: apiErr})
}

// WriteBadRequestResponse 写入400错误响应
func WriteBadRequestResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// WriteUnauthorizedResponse 写入401错误响应
func WriteUnauthorizedResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// WriteNotFoundResponse 写入404错误响应
func WriteNotFoundResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusNotFound, "NOT_FOUND", message)
}

// WriteInternalServerErrorResponse 写入500错误响应
func WriteInternalServerErrorResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

// DecodeJSONObject 解析JSON对象请求体；数字保留为 json.Number
func DecodeJSONObject(r *http.Request) (map[string]interface{}, error) {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, &apperrors.InvalidFieldError{Field: "body", Reason: "request body must be a JSON object"}
	}
	if payload == nil {
		return nil, &apperrors.InvalidFieldError{Field: "body", Reason: "request body must be a JSON object"}
	}
	return payload, nil
}

// QueryInt64 读取可选的正整数查询参数
func QueryInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, &apperrors.InvalidFieldError{Field: key, Reason: "must be a positive integer"}
	}
	return &v, nil
}

// QueryInt 读取非负整数查询参数
func QueryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &apperrors.InvalidFieldError{Field: key, Reason: "must be a non-negative integer"}
	}
	return v, nil
}

// PathInt64 解析路径中的 id
func PathInt64(raw, field string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, &apperrors.InvalidFieldError{Field: field, Reason: "must be a positive integer"}
	}
	return v, nil
}
