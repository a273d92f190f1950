package sheets

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

// Sheet names and their header rows. One table per entity; headers are
// written once when the sheet is first created.
const (
	tableUsers      = "users"
	tableOtp        = "otp_verifications"
	tableCategories = "categories"
	tableProducts   = "products"
	tableOrders     = "orders"
	tableOrderItems = "order_items"
	tableCartItems  = "cart_items"
	tableSessions   = "sessions"
)

var tableHeaders = map[string][]string{
	tableUsers:      {"id", "phoneNumber", "firstName", "lastName", "isAdmin", "createdAt", "updatedAt"},
	tableOtp:        {"id", "phoneNumber", "otp", "expiresAt", "verified", "createdAt"},
	tableCategories: {"id", "name", "icon", "createdAt"},
	tableProducts:   {"id", "name", "description", "price", "image", "categoryId", "inStock", "createdAt", "updatedAt"},
	tableOrders:     {"id", "userId", "status", "total", "customerEmail", "customerPhone", "deliveryAddress", "notes", "createdAt", "updatedAt"},
	tableOrderItems: {"id", "orderId", "productId", "quantity", "price"},
	tableCartItems:  {"id", "userId", "productId", "quantity", "createdAt"},
	tableSessions:   {"sid", "sess", "expire"},
}

// All cell values are strings: booleans as "true"/"false", times as
// RFC3339, numbers via strconv. Parsing is lenient — malformed cells
// decode to zero values rather than failing the read.

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseBool(s string) bool {
	return s == "true"
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// users

func encodeUser(u *domain.User) []string {
	return []string{
		u.ID,
		u.PhoneNumber,
		u.FirstName,
		u.LastName,
		formatBool(u.IsAdmin),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	}
}

func decodeUser(row []string) domain.User {
	return domain.User{
		ID:          cell(row, 0),
		PhoneNumber: cell(row, 1),
		FirstName:   cell(row, 2),
		LastName:    cell(row, 3),
		IsAdmin:     parseBool(cell(row, 4)),
		CreatedAt:   parseTime(cell(row, 5)),
		UpdatedAt:   parseTime(cell(row, 6)),
	}
}

// otp_verifications

func encodeOtpChallenge(c *domain.OtpChallenge) []string {
	return []string{
		c.ID,
		c.PhoneNumber,
		c.Code,
		formatTime(c.ExpiresAt),
		formatBool(c.Verified),
		formatTime(c.CreatedAt),
	}
}

func decodeOtpChallenge(row []string) domain.OtpChallenge {
	return domain.OtpChallenge{
		ID:          cell(row, 0),
		PhoneNumber: cell(row, 1),
		Code:        cell(row, 2),
		ExpiresAt:   parseTime(cell(row, 3)),
		Verified:    parseBool(cell(row, 4)),
		CreatedAt:   parseTime(cell(row, 5)),
	}
}

// categories

func encodeCategory(c *domain.Category) []string {
	return []string{
		strconv.Itoa(c.ID),
		c.Name,
		c.Icon,
		formatTime(c.CreatedAt),
	}
}

func decodeCategory(row []string) domain.Category {
	return domain.Category{
		ID:        parseInt(cell(row, 0)),
		Name:      cell(row, 1),
		Icon:      cell(row, 2),
		CreatedAt: parseTime(cell(row, 3)),
	}
}

// products

func encodeProduct(p *domain.Product) []string {
	categoryID := ""
	if p.CategoryID != 0 {
		categoryID = strconv.Itoa(p.CategoryID)
	}
	return []string{
		strconv.Itoa(p.ID),
		p.Name,
		p.Description,
		p.Price,
		p.Image,
		categoryID,
		formatBool(p.InStock),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	}
}

func decodeProduct(row []string) domain.Product {
	return domain.Product{
		ID:          parseInt(cell(row, 0)),
		Name:        cell(row, 1),
		Description: cell(row, 2),
		Price:       cell(row, 3),
		Image:       cell(row, 4),
		CategoryID:  parseInt(cell(row, 5)),
		InStock:     parseBool(cell(row, 6)),
		CreatedAt:   parseTime(cell(row, 7)),
		UpdatedAt:   parseTime(cell(row, 8)),
	}
}

// orders

func encodeOrder(o *domain.Order) []string {
	return []string{
		strconv.Itoa(o.ID),
		o.UserID,
		o.Status,
		o.Total,
		o.CustomerEmail,
		o.CustomerPhone,
		o.DeliveryAddress,
		o.Notes,
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	}
}

func decodeOrder(row []string) domain.Order {
	return domain.Order{
		ID:              parseInt(cell(row, 0)),
		UserID:          cell(row, 1),
		Status:          cell(row, 2),
		Total:           cell(row, 3),
		CustomerEmail:   cell(row, 4),
		CustomerPhone:   cell(row, 5),
		DeliveryAddress: cell(row, 6),
		Notes:           cell(row, 7),
		CreatedAt:       parseTime(cell(row, 8)),
		UpdatedAt:       parseTime(cell(row, 9)),
	}
}

// order_items

func encodeOrderLine(l *domain.OrderLine) []string {
	return []string{
		strconv.Itoa(l.ID),
		strconv.Itoa(l.OrderID),
		strconv.Itoa(l.ProductID),
		strconv.Itoa(l.Quantity),
		l.Price,
	}
}

func decodeOrderLine(row []string) domain.OrderLine {
	return domain.OrderLine{
		ID:        parseInt(cell(row, 0)),
		OrderID:   parseInt(cell(row, 1)),
		ProductID: parseInt(cell(row, 2)),
		Quantity:  parseInt(cell(row, 3)),
		Price:     cell(row, 4),
	}
}

// cart_items

func encodeCartItem(i *domain.CartItem) []string {
	return []string{
		strconv.Itoa(i.ID),
		i.UserID,
		strconv.Itoa(i.ProductID),
		strconv.Itoa(i.Quantity),
		formatTime(i.CreatedAt),
	}
}

func decodeCartItem(row []string) domain.CartItem {
	return domain.CartItem{
		ID:        parseInt(cell(row, 0)),
		UserID:    cell(row, 1),
		ProductID: parseInt(cell(row, 2)),
		Quantity:  parseInt(cell(row, 3)),
		CreatedAt: parseTime(cell(row, 4)),
	}
}

// sessions — the sess cell is the JSON-serialized session payload.

func encodeSession(s *domain.Session) []string {
	payload, _ := json.Marshal(s.Data)
	return []string{
		s.SID,
		string(payload),
		formatTime(s.Expire),
	}
}

func decodeSession(row []string) domain.Session {
	var data domain.SessionData
	_ = json.Unmarshal([]byte(cell(row, 1)), &data)
	return domain.Session{
		SID:    cell(row, 0),
		Data:   data,
		Expire: parseTime(cell(row, 2)),
	}
}
