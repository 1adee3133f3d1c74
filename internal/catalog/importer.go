package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"mini-shop/internal/model"

	"github.com/rs/zerolog"
)

// MaxUploadSize is the largest accepted import file, 5 MB.
const MaxUploadSize = 5 * 1024 * 1024

const (
	fallbackCategory    = "Tổng hợp"
	fallbackShortDesc   = "Sản phẩm chất lượng cao"
	fallbackDescription = "Mô tả chi tiết sản phẩm"
	fallbackStock       = 10
)

// ImportResult holds the outcome of a CSV import: the mapped products and
// the number of rows skipped for missing or invalid name/price.
type ImportResult struct {
	Products []model.Product `json:"products"`
	Skipped  int             `json:"skipped"`
}

// Importer parses product CSV feeds into catalogue records.
type Importer struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewImporter creates a CSV importer.
func NewImporter(logger zerolog.Logger) *Importer {
	return &Importer{
		logger: logger.With().Str("component", "catalog-importer").Logger(),
		now:    time.Now,
	}
}

// ValidateUpload rejects files that are not .csv or exceed MaxUploadSize.
func ValidateUpload(filename string, size int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return model.NewDomainError(model.ErrCodeInvalidImport, "Only CSV files are accepted")
	}
	if size > MaxUploadSize {
		return model.NewDomainError(model.ErrCodeInvalidImport, "File exceeds the 5 MB limit")
	}
	return nil
}

// Parse reads a CSV feed with a header row and maps it into products.
// Expected columns: product_id, name, price, category, short_description,
// description, stock, image_url. Rows missing name or carrying an
// unparseable or non-positive price are skipped and counted.
func (im *Importer) Parse(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &ImportResult{Products: []model.Product{}}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	result := &ImportResult{Products: []model.Product{}}
	now := im.now()

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		name := field(record, "name")
		priceStr := field(record, "price")
		price, priceErr := strconv.ParseInt(priceStr, 10, 64)

		if name == "" || priceStr == "" || priceErr != nil || price <= 0 {
			result.Skipped++
			im.logger.Debug().
				Str("name", name).
				Str("price", priceStr).
				Msg("skipping import row with missing name or price")
			continue
		}

		index := len(result.Products)

		id := field(record, "product_id")
		if id == "" {
			id = fmt.Sprintf("product-%d", index+1)
		}

		category := field(record, "category")
		if category == "" {
			category = fallbackCategory
		}

		thumbnail := field(record, "image_url")
		if thumbnail == "" {
			thumbnail = model.FallbackThumbnail
		}

		shortDesc := field(record, "short_description")
		if shortDesc == "" {
			shortDesc = fallbackShortDesc
		}

		description := field(record, "description")
		if description == "" {
			description = shortDesc
			if shortDesc == fallbackShortDesc {
				description = fallbackDescription
			}
		}

		stock := fallbackStock
		if s, err := strconv.Atoi(field(record, "stock")); err == nil && s >= 0 {
			stock = s
		}

		result.Products = append(result.Products, model.Product{
			ID:               id,
			Name:             name,
			Price:            price,
			Currency:         model.DefaultCurrency,
			Category:         category,
			Badges:           generateBadges(index),
			Thumbnail:        thumbnail,
			Images:           []string{thumbnail},
			ShortDescription: shortDesc,
			Description:      description,
			Stock:            stock,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	im.logger.Info().
		Int("products", len(result.Products)).
		Int("skipped", result.Skipped).
		Msg("CSV feed parsed")

	return result, nil
}

// generateBadges derives promotional badges from the accepted row index.
func generateBadges(index int) []string {
	badges := []string{"Chính Hãng"}
	if index%3 == 0 {
		badges = append(badges, "Best Seller")
	}
	if index%2 == 0 {
		badges = append(badges, "Free Ship")
	}
	return badges
}
