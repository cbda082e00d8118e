package apitest

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

type userRow struct {
	Seq      uint   `gorm:"primaryKey;autoIncrement"`
	ID       string `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string
	Role     string `gorm:"not null"`
}

func (r userRow) model() models.User {
	return models.User{ID: r.ID, Name: r.Name, Email: r.Email, Role: models.Role(r.Role)}
}

type userBody struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password *string `json:"password"`
	Role     string  `json:"role"`
}

// SeedUsers stores accounts with the given password and returns them with IDs.
func (s *Server) SeedUsers(password string, users ...models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		row := userRow{ID: uuid.NewString(), Name: u.Name, Email: u.Email, Password: password, Role: string(u.Role)}
		if err := s.DB.Create(&row).Error; err != nil {
			panic(err)
		}
		out = append(out, row.model())
	}
	return out
}

func (s *Server) StoredUsers() []models.User {
	var rows []userRow
	s.DB.Order("seq ASC").Find(&rows)
	out := make([]models.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out
}

// StoredPassword exposes the collaborator-side password so tests can check it
// was or was not changed.
func (s *Server) StoredPassword(id string) string {
	var row userRow
	if err := s.DB.Where("id = ?", id).First(&row).Error; err != nil {
		return ""
	}
	return row.Password
}

func (s *Server) listUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.StoredUsers())
}

func (s *Server) createUser(c echo.Context) error {
	var body userBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if body.Name == "" || body.Email == "" || body.Password == nil || *body.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password required")
	}
	if !models.Role(body.Role).Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if s.emailTaken(body.Email, "") {
		return echo.NewHTTPError(http.StatusConflict, "email already exists")
	}

	row := userRow{ID: uuid.NewString(), Name: body.Name, Email: body.Email, Password: *body.Password, Role: body.Role}
	if err := s.DB.Create(&row).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add user to db")
	}
	return c.JSON(http.StatusCreated, row.model())
}

func (s *Server) updateUser(c echo.Context) error {
	var row userRow
	if err := s.DB.Where("id = ?", c.Param("id")).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
	}

	var body userBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !models.Role(body.Role).Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if s.emailTaken(body.Email, row.ID) {
		return echo.NewHTTPError(http.StatusConflict, "email already exists")
	}

	row.Name = body.Name
	row.Email = body.Email
	row.Role = body.Role
	if body.Password != nil && *body.Password != "" {
		row.Password = *body.Password
	}
	if err := s.DB.Save(&row).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save user")
	}
	return c.JSON(http.StatusOK, row.model())
}

func (s *Server) deleteUser(c echo.Context) error {
	res := s.DB.Where("id = ?", c.Param("id")).Delete(&userRow{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete user from db")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) emailTaken(email, exceptID string) bool {
	var n int64
	q := s.DB.Model(&userRow{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	q.Count(&n)
	return n > 0
}
