package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"salty-fish/internal/usecase"
	"salty-fish/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Auth *AuthHandler
	User *UserHandler
	Item *ItemHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth: NewAuthHandler(service.Auth, config, log),
		User: NewUserHandler(service.User, log),
		Item: NewItemHandler(service.Item, log),
	}
}

// decodeJSON reads the body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// normalizer is implemented by requests that trim or fold their fields.
type normalizer interface {
	Normalize()
}

// bind decodes, normalizes and validates the body, writing the 400 itself on failure.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

// handleServiceError logs by error class and writes the envelope.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	status := utils.StatusCode(err)

	switch {
	case status >= http.StatusInternalServerError:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	default:
		log.Warn(operation+" failed", zap.Error(err), zap.Int("status", status))
	}

	utils.ResponseError(w, err)
}
