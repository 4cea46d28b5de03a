// Package odm provides a small typed data-mapping layer over MongoDB collections.
package odm

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "Users"

// Model describes where documents live and which indexes they need.
type Model struct {
	Collection string
	Indexes    []mongo.IndexModel
}

// UserModel describes the Users collection. Emails are unique.
func UserModel() Model {
	return Model{
		Collection: UsersCollection,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("users_email_unique"),
			},
		},
	}
}
