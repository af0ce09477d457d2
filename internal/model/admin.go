package model

import "time"

// Admin is a back-office account. Password holds a bcrypt hash, or a
// legacy unsalted SHA-256 hex digest until the account next logs in.
type Admin struct {
	ID        uint64    `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
}

// Message is a contact-form submission.
type Message struct {
	ID        uint64    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Content   string    `db:"content"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

// DashboardStats summarises the back office landing page.
type DashboardStats struct {
	Messages       int
	UnreadMessages int
	Products       int
	Banners        int
	FactoryAssets  int
	Recent         []Message
}
