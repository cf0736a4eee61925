package memory

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func errNotFound(kind string, id primitive.ObjectID) error {
	return fmt.Errorf("%s %s not found", kind, id.Hex())
}
