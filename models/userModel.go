package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"-"`
	Name      *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Password  *string            `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	Email     *string            `bson:"email" json:"email" validate:"email,required"`
	Phone     *string            `bson:"phone" json:"phone" validate:"required"`
	User_role *string            `bson:"user_role" json:"user_role" validate:"required,eq=ADMIN|eq=CASHIER"`

	Token         *string   `bson:"token" json:"token"`
	Refresh_Token *string   `bson:"refresh_token" json:"refresh_token"`
	Created_at    time.Time `bson:"created_at" json:"created_at"`
	Updated_at    time.Time `bson:"updated_at" json:"updated_at"`
	User_id       string    `bson:"user_id" json:"user_id"`
}
