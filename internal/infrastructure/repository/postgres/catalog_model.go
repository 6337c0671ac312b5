package postgres

import "time"

type leagueTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Season    string    `db:"season"`
	Logo      string    `db:"logo"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leagueWriteModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Season    string    `db:"season"`
	Logo      string    `db:"logo"`
	UpdatedAt time.Time `db:"updated_at"`
}

type countryTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	Flag      string    `db:"flag"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type countryWriteModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	Flag      string    `db:"flag"`
	UpdatedAt time.Time `db:"updated_at"`
}

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Logo      string    `db:"logo"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type teamWriteModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Logo      string    `db:"logo"`
	UpdatedAt time.Time `db:"updated_at"`
}
