package apitest

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

type productRow struct {
	Seq         uint   `gorm:"primaryKey;autoIncrement"`
	ID          string `gorm:"uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Price       string `gorm:"not null"`
	Description string
	Category    string
	Image       string
	ImageData   []byte
}

func (r productRow) model() models.Product {
	price, _ := decimal.NewFromString(r.Price)
	return models.Product{
		ID:          r.ID,
		Title:       r.Title,
		Price:       price,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}
}

// SeedProducts stores products directly, assigning IDs, and returns them.
func (s *Server) SeedProducts(products ...models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		row := productRow{
			ID:          uuid.NewString(),
			Title:       p.Title,
			Price:       p.Price.String(),
			Description: p.Description,
			Category:    p.Category,
			Image:       p.Image,
		}
		if err := s.DB.Create(&row).Error; err != nil {
			panic(err)
		}
		out = append(out, row.model())
	}
	return out
}

// StoredProducts reads the collaborator's products in list order.
func (s *Server) StoredProducts() []models.Product {
	var rows []productRow
	s.DB.Order("seq ASC").Find(&rows)
	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out
}

// ProductImage returns the bytes uploaded for a product.
func (s *Server) ProductImage(id string) []byte {
	var row productRow
	if err := s.DB.Where("id = ?", id).First(&row).Error; err != nil {
		return nil
	}
	return row.ImageData
}

func (s *Server) listProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.StoredProducts())
}

func (s *Server) createProduct(c echo.Context) error {
	row := productRow{ID: uuid.NewString()}
	if err := bindProduct(c, &row); err != nil {
		return err
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}
	return c.JSON(http.StatusCreated, row.model())
}

func (s *Server) updateProduct(c echo.Context) error {
	var row productRow
	if err := s.DB.Where("id = ?", c.Param("id")).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}
	if err := bindProduct(c, &row); err != nil {
		return err
	}
	if err := s.DB.Save(&row).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save product")
	}
	return c.JSON(http.StatusOK, row.model())
}

func (s *Server) deleteProduct(c echo.Context) error {
	res := s.DB.Where("id = ?", c.Param("id")).Delete(&productRow{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product from db")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// bindProduct copies multipart fields onto row. A missing image part keeps
// whatever image row already has.
func bindProduct(c echo.Context, row *productRow) error {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "multipart body required")
	}
	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil || price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	title := c.FormValue("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title required")
	}

	row.Title = title
	row.Price = price.String()
	row.Description = c.FormValue("description")
	row.Category = c.FormValue("category")

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image")
	}
	row.ImageData = data
	row.Image = "/uploads/" + row.ID + "-" + fh.Filename
	return nil
}
