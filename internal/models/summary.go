package models

// ShiftSummary агрегат по завершённым сменам одного пользователя
type ShiftSummary struct {
	UserID     string  `json:"user_id"`
	Username   string  `json:"username"`
	Shifts     int     `json:"shifts"`
	TotalHours float64 `json:"total_hours"`
	TotalPay   float64 `json:"total_pay"`
}
