package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/deskops-lab/ticketboard/pkg/domain/interfaces"
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Snapshots are immutable: each reload writes a complete generation
	// under snapshots/<generation>/tickets, then flips the pointer in
	// board/snapshot. Readers resolve the pointer first, so an in-flight
	// ListTickets keeps seeing the previous generation in full.
	snapshotsCollection  = "snapshots"
	ticketsSubcollection = "tickets"
	metaCollection       = "board"
	metaSnapshotDocID    = "snapshot"

	fieldGeneration = "generation"

	// Field used to keep ListTickets in stable load order
	fieldLoadSeq = "load_seq"
)

// ticketDoc wraps a record with its load sequence for ordered reads
type ticketDoc struct {
	Record  *model.TicketRecord `firestore:"record"`
	LoadSeq int                 `firestore:"load_seq"`
}

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on bad project IDs or missing permissions; an empty
	// collection is fine.
	_, err = client.Collection(metaCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{client: client}, nil
}

func (f *Firestore) generationTickets(generation string) *firestore.CollectionRef {
	return f.client.Collection(snapshotsCollection).Doc(generation).Collection(ticketsSubcollection)
}

// ReplaceTickets writes the records as a fresh snapshot generation and
// activates it only after every write succeeded. Readers never observe a
// partially written snapshot: they follow the board/snapshot pointer,
// which flips in a transaction once the new generation is complete.
func (f *Firestore) ReplaceTickets(ctx context.Context, records []*model.TicketRecord) error {
	generation := uuid.NewString()
	coll := f.generationTickets(generation)

	bw := f.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(records))

	for i, r := range records {
		if r == nil {
			return goerr.New("ticket record is nil", goerr.V("index", i))
		}
		rec := *r
		if rec.ID == "" {
			rec.ID = types.NewTicketID()
		}
		doc := &ticketDoc{Record: &rec, LoadSeq: i}
		job, err := bw.Set(coll.Doc(rec.ID.String()), doc)
		if err != nil {
			return goerr.Wrap(err, "failed to queue ticket write",
				goerr.V("id", rec.ID))
		}
		jobs = append(jobs, job)
	}

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to write ticket snapshot",
				goerr.V("generation", generation))
		}
	}

	// Flip the active generation
	metaDoc := f.client.Collection(metaCollection).Doc(metaSnapshotDocID)
	var previous string
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(metaDoc)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get snapshot pointer")
			}
		} else {
			current, err := doc.DataAt(fieldGeneration)
			if err != nil {
				return goerr.Wrap(err, "failed to get generation field")
			}
			if s, ok := current.(string); ok {
				previous = s
			}
		}
		return tx.Set(metaDoc, map[string]any{fieldGeneration: generation})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to activate ticket snapshot",
			goerr.V("generation", generation))
	}

	// The old generation is unreferenced now; cleanup failures only leave
	// stale documents behind.
	if previous != "" && previous != generation {
		f.deleteGeneration(ctx, previous)
	}

	return nil
}

// deleteGeneration removes an inactive snapshot generation, best effort.
func (f *Firestore) deleteGeneration(ctx context.Context, generation string) {
	logger := ctxlog.From(ctx)

	bw := f.client.BulkWriter(ctx)
	iter := f.generationTickets(generation).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Warn("Failed to iterate stale snapshot generation",
				"generation", generation,
				"error", err,
			)
			return
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			logger.Warn("Failed to queue stale snapshot deletion",
				"generation", generation,
				"error", err,
			)
			return
		}
	}
	bw.End()

	if _, err := f.client.Collection(snapshotsCollection).Doc(generation).Delete(ctx); err != nil {
		logger.Warn("Failed to delete stale snapshot generation",
			"generation", generation,
			"error", err,
		)
	}
}

// ListTickets returns the active snapshot ordered by load sequence
func (f *Firestore) ListTickets(ctx context.Context) ([]*model.TicketRecord, error) {
	metaDoc := f.client.Collection(metaCollection).Doc(metaSnapshotDocID)

	meta, err := metaDoc.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get snapshot pointer")
	}
	current, err := meta.DataAt(fieldGeneration)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get generation field")
	}
	generation, ok := current.(string)
	if !ok || generation == "" {
		return nil, nil
	}

	iter := f.generationTickets(generation).OrderBy(fieldLoadSeq, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var records []*model.TicketRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list tickets from firestore")
		}

		var doc ticketDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode ticket document",
				goerr.V("doc", snap.Ref.ID))
		}
		records = append(records, doc.Record)
	}
	return records, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
