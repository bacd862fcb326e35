package app

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"codeappraise/internal/gateway/config"
	"codeappraise/internal/prompt"
	artifactrepo "codeappraise/internal/repository/artifact"
	projectrepo "codeappraise/internal/repository/project"
	promptoverriderepo "codeappraise/internal/repository/promptoverride"
	reportrepo "codeappraise/internal/repository/report"
)

type stores struct {
	projects  projectrepo.Store
	reports   reportrepo.Store
	overrides prompt.OverrideStore
	artifacts artifactrepo.Store
	db        *sql.DB
}

func initStores(cfg *config.Config) (*stores, error) {
	s := &stores{}

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		s.db = db
		s.projects = projectrepo.NewPostgresStore(db)
		s.reports = reportrepo.NewPostgresStore(db)
		s.overrides = promptoverriderepo.NewPostgresStore(db)
		log.Printf("stores: postgres")
	} else {
		s.projects = projectrepo.NewMemoryStore()
		s.reports = reportrepo.NewMemoryStore()
		s.overrides = promptoverriderepo.NewMemoryStore()
		log.Printf("stores: in-memory (no DATABASE_URL)")
	}

	if cfg.Artifact.Enabled {
		s3Store, err := artifactrepo.NewS3Store(artifactrepo.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init artifact s3 store: %w", err)
		}
		log.Printf("artifact store: s3 bucket=%s endpoint=%s", cfg.Artifact.Bucket, cfg.Artifact.Endpoint)
		s.artifacts = s3Store
	}

	return s, nil
}

func (s *stores) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
