package dto

type SettingsResponse struct {
	HasApiKey     bool    `json:"has_api_key"`
	ApiKeyPreview *string `json:"api_key_preview,omitempty"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

type UpdateApiKeyRequest struct {
	ApiKey string `json:"api_key" validate:"required,min=10"`
}
