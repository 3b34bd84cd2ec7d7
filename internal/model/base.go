package model

import "time"

type BaseModel struct {
	ID        string    `db:"id" json:"id" bson:"_id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" bson:"updated_at"`
}
