package api

import "time"

// Horse is a registered animal.
type Horse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Sex             string     `json:"sex"`
	Breed           string     `json:"breed,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	OwnerID         string     `json:"ownerId"`
	EstablishmentID *string    `json:"establecimientoId,omitempty"`
}

// HorseInput is the create/update payload for a horse.
type HorseInput struct {
	Name            string     `json:"name"`
	Sex             string     `json:"sex"`
	Breed           string     `json:"breed,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	EstablishmentID *string    `json:"establecimientoId,omitempty"`
}

// Establishment is a stable/farm.
type Establishment struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	OwnerID string `json:"ownerId"`
}

// EstablishmentInput is the create/update payload for an establishment.
type EstablishmentInput struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Event is a scheduled or recorded occurrence (vet visit, competition, ...).
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Date            time.Time `json:"date"`
	Notes           string    `json:"notes,omitempty"`
	HorseID         *string   `json:"horseId,omitempty"`
	EstablishmentID *string   `json:"establecimientoId,omitempty"`
}

// EventInput is the create/update payload for an event.
type EventInput struct {
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Date            time.Time `json:"date"`
	Notes           string    `json:"notes,omitempty"`
	HorseID         *string   `json:"horseId,omitempty"`
	EstablishmentID *string   `json:"establecimientoId,omitempty"`
}

// Task is a unit of assigned work.
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	AssigneeID      *string    `json:"assigneeId,omitempty"`
	EstablishmentID string     `json:"establecimientoId"`
}

// TaskInput is the create/update payload for a task.
type TaskInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	AssigneeID      *string    `json:"assigneeId,omitempty"`
	EstablishmentID string     `json:"establecimientoId"`
}
