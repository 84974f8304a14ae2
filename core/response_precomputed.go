package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkRegistration         = "ok_registration"
	CodeOkPasswordResetRequest = "ok_password_reset_requested"
	CodeOkEmailBindRequest     = "ok_email_bind_requested"
	CodeOkPasswordSet          = "ok_password_set"
	CodeOkPasswordUpdated      = "ok_password_updated"
	CodeOkClickRecorded        = "ok_click_recorded"

	// errors
	CodeErrorInvalidRequest            = "err_invalid_input"
	CodeErrorInvalidContentType        = "err_invalid_content_type"
	CodeErrorMissingFields             = "err_missing_fields"
	CodeErrorInvalidCredentials        = "err_invalid_credentials"
	CodeErrorPasswordComplexity        = "err_password_complexity"
	CodeErrorEmailConflict             = "err_email_conflict"
	CodeErrorUserNotFound              = "err_user_not_found"
	CodeErrorNotVerified               = "err_not_verified"
	CodeErrorPasswordAlreadySet        = "err_password_already_set"
	CodeErrorNoPasswordSet             = "err_no_password_set"
	CodeErrorCodeNotFound              = "err_code_not_found"
	CodeErrorCodeExpired               = "err_code_expired"
	CodeErrorCodeAlreadyUsed           = "err_code_already_used"
	CodeErrorMailAlreadyRequested      = "err_mail_already_requested"
	CodeErrorTokenGeneration           = "err_token_generation"
	CodeErrorAuthDatabaseError         = "err_auth_database_error"
	CodeErrorServiceUnavailable        = "err_service_unavailable"
	CodeErrorNoAuthHeader              = "err_no_auth_header"
	CodeErrorInvalidTokenFormat        = "err_invalid_token_format"
	CodeErrorJwtInvalidSignMethod      = "err_invalid_sign_method"
	CodeErrorJwtTokenExpired           = "err_token_expired"
	CodeErrorJwtInvalidToken           = "err_invalid_token"
	CodeErrorInvalidOAuth2Provider     = "err_invalid_oauth2_provider"
	CodeErrorOAuth2StateMismatch       = "err_oauth2_state_mismatch"
	CodeErrorOAuth2MissingCode         = "err_oauth2_missing_code"
	CodeErrorOAuth2TokenExchangeFailed = "err_oauth2_token_exchange_failed"
	CodeErrorOAuth2UserInfoFailed      = "err_oauth2_user_info_failed"
	CodeErrorOAuth2DatabaseError       = "err_oauth2_database_error"
	CodeErrorContentUnavailable        = "err_content_unavailable"
)

// precomputeBasicResponse builds a jsonResponse whose JSON body is marshaled
// once during package initialization, before main() runs. Handlers then write
// the stored bytes directly, avoiding repeated marshaling per request.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest            = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorInvalidContentType        = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorMissingFields             = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingFields, "Required fields are missing")
	errorInvalidCredentials        = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidCredentials, "Invalid credentials provided")
	errorPasswordComplexity        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordComplexity, "Password must be at least 8 characters")
	errorEmailConflict             = precomputeBasicResponse(http.StatusConflict, CodeErrorEmailConflict, "Email address is already registered")
	errorUserNotFound              = precomputeBasicResponse(http.StatusNotFound, CodeErrorUserNotFound, "No account matches this email address")
	errorNotVerified               = precomputeBasicResponse(http.StatusForbidden, CodeErrorNotVerified, "Email address has not been verified yet")
	errorPasswordAlreadySet        = precomputeBasicResponse(http.StatusConflict, CodeErrorPasswordAlreadySet, "A password has already been set for this account")
	errorNoPasswordSet             = precomputeBasicResponse(http.StatusConflict, CodeErrorNoPasswordSet, "No password has been set for this account")
	errorCodeNotFound              = precomputeBasicResponse(http.StatusBadRequest, CodeErrorCodeNotFound, "Verification code not found or does not match")
	errorCodeExpired               = precomputeBasicResponse(http.StatusBadRequest, CodeErrorCodeExpired, "Verification code has expired")
	errorCodeAlreadyUsed           = precomputeBasicResponse(http.StatusConflict, CodeErrorCodeAlreadyUsed, "Verification code has already been used")
	errorMailAlreadyRequested      = precomputeBasicResponse(http.StatusConflict, CodeErrorMailAlreadyRequested, "A code was sent recently, please wait before requesting another")
	errorTokenGeneration           = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorTokenGeneration, "Failed to generate authentication token")
	errorAuthDatabaseError         = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorAuthDatabaseError, "Database error during authentication")
	errorServiceUnavailable        = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorServiceUnavailable, "Service is temporarily unavailable")
	errorNoAuthHeader              = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNoAuthHeader, "Authorization header is required")
	errorInvalidTokenFormat        = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidTokenFormat, "Invalid authorization token format")
	errorJwtInvalidSignMethod      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidSignMethod, "Invalid JWT signing method")
	errorJwtTokenExpired           = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtTokenExpired, "Authentication token has expired")
	errorJwtInvalidToken           = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidToken, "Invalid authentication token")
	errorInvalidOAuth2Provider     = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOAuth2Provider, "Invalid OAuth2 provider specified")
	errorOAuth2StateMismatch       = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2StateMismatch, "OAuth2 state parameter mismatch")
	errorOAuth2MissingCode         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2MissingCode, "Missing OAuth2 authorization code")
	errorOAuth2TokenExchangeFailed = precomputeBasicResponse(http.StatusBadGateway, CodeErrorOAuth2TokenExchangeFailed, "Failed to exchange OAuth2 token")
	errorOAuth2UserInfoFailed      = precomputeBasicResponse(http.StatusBadGateway, CodeErrorOAuth2UserInfoFailed, "Failed to get user info from OAuth2 provider")
	errorOAuth2DatabaseError       = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorOAuth2DatabaseError, "Database error during OAuth2 authentication")
	errorContentUnavailable        = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorContentUnavailable, "Failed to load start page content")

	// oks
	okRegistration         = precomputeBasicResponse(http.StatusCreated, CodeOkRegistration, "Account created. Check your mailbox for the verification code")
	okPasswordResetRequest = precomputeBasicResponse(http.StatusAccepted, CodeOkPasswordResetRequest, "Password reset code will be sent to your email")
	okEmailBindRequest     = precomputeBasicResponse(http.StatusAccepted, CodeOkEmailBindRequest, "A confirmation code will be sent to the new email address")
	okPasswordSet          = precomputeBasicResponse(http.StatusOK, CodeOkPasswordSet, "Password set successfully")
	okPasswordUpdated      = precomputeBasicResponse(http.StatusOK, CodeOkPasswordUpdated, "Password updated successfully")
	okClickRecorded        = precomputeBasicResponse(http.StatusOK, CodeOkClickRecorded, "Click recorded")
)
