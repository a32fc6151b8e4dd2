package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	AvailableStock  = 500
	DefaultLanguage = "pt"
	authorSeparator = " & "
)

// ========================================
// INPUT
// ========================================

// BookEntry là một dòng của file input (JSON hoặc XLSX)
type BookEntry struct {
	Row    int // số thứ tự trong file, dùng cho error message
	Title  string
	Author string
	Price  decimal.Decimal
	Note   string
}

type bookEntryJSON struct {
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Price  json.RawMessage `json:"price"`
	Note   string          `json:"note"`
}

// UnmarshalJSON accepts price as a number or a string ("850", "1 250,50").
func (e *BookEntry) UnmarshalJSON(b []byte) error {
	var raw bookEntryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	price, err := decodePrice(raw.Price)
	if err != nil {
		return fmt.Errorf("%w for %q: %v", ErrInvalidPrice, raw.Title, err)
	}

	*e = BookEntry{
		Title:  strings.TrimSpace(raw.Title),
		Author: strings.TrimSpace(raw.Author),
		Price:  price,
		Note:   strings.TrimSpace(raw.Note),
	}
	return nil
}

func decodePrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, err
		}
		return ParsePrice(s)
	}
	return decimal.NewFromString(string(raw))
}

// ParsePrice: "850" / "850.00" / "1 250,50" / "MZN 300" → decimal
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "MZN"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, nil
	}
	// dấu xuất hiện sau cùng là dấu thập phân
	lastComma, lastDot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

// ========================================
// OUTPUT
// ========================================

// SeedBook là một book đã normalize, sẵn sàng render thành SQL
type SeedBook struct {
	Title    string
	Slug     string
	PriceMZN decimal.Decimal
	Stock    int
	Language string
	IsActive bool
	Authors  []string
}

// StockFromNote: "Disponível" → 500, "Indisponível"/không ghi chú → 0
func StockFromNote(note string) int {
	n := strings.ToLower(note)
	if strings.Contains(n, "indisponível") || strings.Contains(n, "indisponivel") {
		return 0
	}
	if strings.Contains(n, "disponível") || strings.Contains(n, "disponivel") {
		return AvailableStock
	}
	return 0
}

// SplitAuthors tách "Mia Couto & José Craveirinha" thành từng tên
func SplitAuthors(credit string) []string {
	var names []string
	for _, part := range strings.Split(credit, authorSeparator) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
