package vector

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrew/clickup-rag/pkg/models"
)

// idContentPrefixLen bounds how much content participates in the
// identity hash. Enough to distinguish same-type documents of the same
// task and moment without hashing whole discussion bodies.
const idContentPrefixLen = 200

// DocumentID derives the deterministic identifier that makes storage
// idempotent: a SHA-256 over the parent task, document type, creation
// millisecond timestamp, and a content prefix. Byte-identical
// re-ingestion of the same logical document produces the same ID.
func DocumentID(doc models.Document) string {
	createdMS := "0"
	if v, ok := doc.Metadata["created_at_ms"]; ok {
		createdMS = fmt.Sprintf("%v", v)
	}

	prefix := doc.Content
	if len(prefix) > idContentPrefixLen {
		prefix = prefix[:idContentPrefixLen]
	}

	source := fmt.Sprintf("%s_%s_%s_%s", doc.ParentTaskID, doc.Type, createdMS, prefix)
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// PointID folds a document identifier into the UUID form Qdrant accepts
// as a point ID. The mapping is deterministic, so upserts stay
// idempotent.
func PointID(docID string) string {
	sum := sha256.Sum256([]byte(docID))
	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		// sum[:16] is always 16 bytes; FromBytes cannot fail here.
		panic(err)
	}
	return id.String()
}
