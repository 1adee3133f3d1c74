package catalog

import (
	"time"

	"mini-shop/internal/model"
)

func int64Ptr(v int64) *int64 { return &v }

// DemoProducts returns the built-in catalogue used when a shop is created
// without an uploaded feed.
func DemoProducts(now time.Time) []model.Product {
	return []model.Product{
		{
			ID:               "1",
			Name:             "Giày Chạy Bộ Nike Air Zoom Pegasus",
			Price:            2_490_000,
			ListedPrice:      int64Ptr(2_990_000),
			Currency:         model.DefaultCurrency,
			Category:         "Thể thao",
			Badges:           []string{"Chính Hãng", "Free Ship"},
			Thumbnail:        "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400&h=400&fit=crop",
			Images:           []string{"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=800&h=800&fit=crop"},
			ShortDescription: "Giày chạy bộ nhẹ nhàng, êm ái cho người mới bắt đầu",
			Description:      "Nike Air Zoom Pegasus là lựa chọn hoàn hảo cho những người mới bắt đầu chạy bộ. Với thiết kế nhẹ nhàng, đệm êm ái và độ bền cao.",
			Stock:            50,
			Related:          []string{"2", "3"},
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "2",
			Name:             "Túi Xách Công Sở Cao Cấp",
			Price:            850_000,
			Currency:         model.DefaultCurrency,
			Category:         "Phụ kiện",
			Badges:           []string{"Best Seller"},
			Thumbnail:        "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400&h=400&fit=crop",
			Images:           []string{"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800&h=800&fit=crop"},
			ShortDescription: "Túi xách da thật, thiết kế sang trọng",
			Description:      "Túi xách công sở được làm từ da thật cao cấp, thiết kế tinh tế phù hợp với môi trường công sở hiện đại.",
			Stock:            25,
			Related:          []string{"1", "3"},
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "3",
			Name:             "Đồng Hồ Thông Minh Apple Watch",
			Price:            8_990_000,
			Currency:         model.DefaultCurrency,
			Category:         "Công nghệ",
			Badges:           []string{"Chính Hãng", "Bảo hành 12 tháng"},
			Thumbnail:        "https://images.unsplash.com/photo-1434494878577-86c23bcb06b9?w=400&h=400&fit=crop",
			Images:           []string{"https://images.unsplash.com/photo-1434494878577-86c23bcb06b9?w=800&h=800&fit=crop"},
			ShortDescription: "Theo dõi sức khỏe và thể thao toàn diện",
			Description:      "Apple Watch Series mới nhất với đầy đủ tính năng theo dõi sức khỏe, thể thao và kết nối thông minh.",
			Stock:            15,
			Related:          []string{"1", "2"},
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}
