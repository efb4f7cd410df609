package model

// TgUser links one Telegram account to an internal user.
//
// UserID stays nil until the account-linking endpoint validates a submitted
// verification code; it is set exactly once.
type TgUser struct {
	ID               int64   `db:"id"`
	TgID             int64   `db:"tg_id"`
	TgUsername       *string `db:"tg_username"`
	VerificationCode *string `db:"verification_code"`
	UserID           *int64  `db:"user_id"`
}

// Verified reports whether the Telegram account is linked to an internal user.
func (u *TgUser) Verified() bool {
	return u.UserID != nil
}

// ChatState tracks an in-progress goal creation wizard for one verified
// Telegram user. CategoryID is set only while CreateInProgress is true.
type ChatState struct {
	TgUserID         int64  `db:"tg_user_id"`
	CategoryID       *int64 `db:"category_id"`
	CreateInProgress bool   `db:"is_create_command"`
}
