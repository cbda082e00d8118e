package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

// UserPayload is sent as JSON. Password is omitted when empty, which on update
// leaves the stored password untouched.
type UserPayload struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password,omitempty"`
	Role     models.Role `json:"role"`
}

func encodeUser(p UserPayload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(p); err != nil {
		return nil, "", fmt.Errorf("encode user: %w", err)
	}
	return buf, echo.MIMEApplicationJSON, nil
}
