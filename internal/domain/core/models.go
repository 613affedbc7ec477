package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	NationalID   string    `json:"nationalId,omitempty"`
	StartDate    time.Time `json:"startDate"`
	PositionID   string    `json:"positionId,omitempty"`
	DepartmentID string    `json:"departmentId,omitempty"`
	LevelID      string    `json:"levelId,omitempty"`
	ManagerID    string    `json:"managerId,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Position struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	MinSalary decimal.Decimal `json:"minSalary"`
	MaxSalary decimal.Decimal `json:"maxSalary"`
}

type Level struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}
