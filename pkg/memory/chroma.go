package memory

import (
	"context"
	"fmt"
	"os"

	emaildomain "github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
	"github.com/sirupsen/logrus"
)

const (
	collectionName = "emails"

	// Embedding models cap input length; longer bodies are truncated.
	maxContentLen = 10000
)

// ChromaStore implements Store on Chroma Cloud with Gemini embeddings.
type ChromaStore struct {
	client     chroma.Client
	collection chroma.Collection
	log        *logrus.Logger
}

func NewChromaStore(cfg *config.Config, log *logrus.Logger) (*ChromaStore, error) {
	if cfg.ChromaAPIKey == "" {
		return nil, fmt.Errorf("CHROMA_API_KEY is required")
	}
	if cfg.GeminiAPIKey != "" {
		os.Setenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	}

	embedFunc, err := gemini.NewGeminiEmbeddingFunction(
		gemini.WithEnvAPIKey(),
		gemini.WithDefaultModel("text-embedding-004"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
	}

	var client chroma.Client
	if cfg.ChromaDatabase != "" && cfg.ChromaTenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
			chroma.WithDatabaseAndTenant(cfg.ChromaDatabase, cfg.ChromaTenant),
		)
	} else if cfg.ChromaTenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
			chroma.WithTenant(cfg.ChromaTenant),
		)
	} else {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.ChromaAPIKey),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		context.Background(),
		collectionName,
		chroma.WithEmbeddingFunctionCreate(embedFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	log.WithField("collection", collectionName).Info("initialized Chroma memory store")

	return &ChromaStore{
		client:     client,
		collection: collection,
		log:        log,
	}, nil
}

// entryID scopes the provider message id to its owner. Provider ids are
// unique only per mailbox and the collection is shared, so a bare id would
// let one user's upsert overwrite another's entry.
func entryID(userID, messageID string) chroma.DocumentID {
	return chroma.DocumentID(userID + ":" + messageID)
}

// Content flattens an email into the text blob stored on the platform.
func Content(rec *emaildomain.EmailRecord) string {
	text := fmt.Sprintf("Subject: %s\nSnippet: %s\nBody: %s", rec.Subject, rec.Snippet, rec.Body)
	if len(text) > maxContentLen {
		text = text[:maxContentLen]
	}
	return text
}

func (c *ChromaStore) UpsertEmail(ctx context.Context, userID string, rec *emaildomain.EmailRecord) error {
	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		"user_id":  userID,
		"email_id": rec.MessageID,
		"subject":  rec.Subject,
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	// Re-upload of the same message updates the user's entry in place.
	err = c.collection.Upsert(
		ctx,
		chroma.WithIDs(entryID(userID, rec.MessageID)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(Content(rec)),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert email memory: %w", err)
	}
	return nil
}

func (c *ChromaStore) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	where := chroma.EqString("user_id", userID)

	results, err := c.collection.Query(
		ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(limit),
		chroma.WithWhereQuery(where),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	if results == nil || results.CountGroups() == 0 {
		return []string{}, nil
	}

	docGroups := results.GetDocumentsGroups()
	if len(docGroups) == 0 || len(docGroups[0]) == 0 {
		return []string{}, nil
	}

	contents := make([]string, 0, len(docGroups[0]))
	for _, doc := range docGroups[0] {
		contents = append(contents, doc.ContentString())
	}
	c.log.WithFields(logrus.Fields{
		"user_id": userID,
		"results": len(contents),
	}).Debug("memory search completed")
	return contents, nil
}
