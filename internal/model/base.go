package model

import "github.com/google/uuid"

// ensureID assigns a v4 id when the caller did not. Ids are generated in Go so the same
// models migrate on postgres and sqlite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
