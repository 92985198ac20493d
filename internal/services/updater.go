package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vvka-141/updater/internal/encryption"
	"github.com/vvka-141/updater/internal/queries"
	"github.com/vvka-141/updater/internal/upload"
	"github.com/vvka-141/updater/pkg/updater"
)

// UpdateService runs the extract, encrypt and upload pipeline.
// Thread-Safety: safe for concurrent Run() calls as long as the injected
// dependencies are; each run opens its own session and uploader.
type UpdateService struct {
	openSession updater.SessionOpener
	serializer  updater.Serializer
	newUploader updater.UploaderFactory
	logger      updater.Logger
	newRunID    func() string
}

// NewUpdateService creates an UpdateService with all dependencies injected.
//
// Panics on nil dependencies: these are wiring mistakes and fail at
// startup. Everything that can go wrong at run time is returned as an error.
func NewUpdateService(
	openSession updater.SessionOpener,
	serializer updater.Serializer,
	newUploader updater.UploaderFactory,
	logger updater.Logger,
) *UpdateService {
	if openSession == nil {
		panic("openSession cannot be nil")
	}
	if serializer == nil {
		panic("serializer cannot be nil")
	}
	if newUploader == nil {
		panic("newUploader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &UpdateService{
		openSession: openSession,
		serializer:  serializer,
		newUploader: newUploader,
		logger:      logger,
		newRunID:    uuid.NewString,
	}
}

// Run executes one pipeline run.
//
// The returned error is non-nil only for fatal conditions (configuration,
// query file, key, database, serialization or batch capacity). Upload and
// reload failures are logged and recorded in the report; they never fail
// the run.
func (s *UpdateService) Run(ctx context.Context, cfg *updater.RunConfig) (*updater.RunReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &updater.RunReport{RunID: s.newRunID()}
	s.logger.Verbose("Run ID: %s", report.RunID)

	specs, err := queries.LoadFile(cfg.QueriesPath)
	if err != nil {
		return nil, err
	}
	report.Queries = queries.Names(specs)
	s.logger.Verbose("Loaded %d query(ies) from %s", len(specs), cfg.QueriesPath)

	encryptor, err := encryption.NewFernet(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	datasets, err := s.extract(ctx, cfg, specs)
	if err != nil {
		return nil, err
	}

	batch, err := s.assemble(datasets, encryptor, cfg.EffectiveMaxArtifacts())
	if err != nil {
		return nil, err
	}
	report.Artifacts = batch.Fields()

	if cfg.DryRun {
		return report, s.export(cfg, batch)
	}

	uploader := s.newUploader(cfg.APIURL, cfg.APIKey, report.RunID)

	report.Upload = uploader.Upload(ctx, batch)
	if report.Upload.OK() {
		s.logger.Info("upload succeeded")
	} else {
		s.logger.Error("upload failed: %v", report.Upload.Err)
	}

	report.Reload = uploader.Reload(ctx)
	if report.Reload.OK() {
		s.logger.Info("service reloaded")
	} else {
		s.logger.Error("reload failed: %v", report.Reload.Err)
	}

	return report, nil
}

// extract runs every query on one session and releases it before returning.
func (s *UpdateService) extract(ctx context.Context, cfg *updater.RunConfig, specs []updater.QuerySpec) ([]updater.NamedDataset, error) {
	session, err := s.openSession(ctx, &cfg.Connection)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	datasets, err := session.ExecuteAll(ctx, specs)
	if err != nil {
		return nil, err
	}

	if err := session.Close(); err != nil {
		s.logger.Verbose("Closing database session: %v", err)
	}
	return datasets, nil
}

// assemble serializes and encrypts datasets in order and assigns slots.
func (s *UpdateService) assemble(datasets []updater.NamedDataset, encryptor updater.Encryptor, limit int) (*updater.Batch, error) {
	batch := updater.NewBatch(limit)

	for _, ds := range datasets {
		plain, err := s.serializer.Encode(ds.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %q: %w", ds.Name, err)
		}

		ciphertext, err := encryptor.Encrypt(plain)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt %q: %w", ds.Name, err)
		}

		slot, err := batch.Add(updater.EncryptedArtifact{Name: ds.Name, Ciphertext: ciphertext})
		if err != nil {
			s.logger.Error("%d artifact(s) built, batch holds at most %d", batch.Len(), batch.Limit())
			return nil, err
		}
		s.logger.Verbose("Artifact %q -> %s (%d bytes)", ds.Name, slot.Field, len(ciphertext))
	}

	return batch, nil
}

func (s *UpdateService) export(cfg *updater.RunConfig, batch *updater.Batch) error {
	if cfg.OutputDir == "" {
		s.logger.Info("Dry run: %d artifact(s) built, nothing uploaded", batch.Len())
		return nil
	}

	paths, err := upload.WriteDir(cfg.OutputDir, batch)
	if err != nil {
		return err
	}
	for _, p := range paths {
		s.logger.Info("Wrote %s", p)
	}
	s.logger.Info("Dry run: %d artifact(s) written to %s, nothing uploaded", len(paths), cfg.OutputDir)
	return nil
}
