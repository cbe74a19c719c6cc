package sql

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store and runs pending migrations.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// clusterRow is the database representation of a manual cluster. Segment
// and address lists are stored as JSON strings.
type clusterRow struct {
	ID              string         `db:"id"`
	ClusterName     string         `db:"cluster_name"`
	Site            string         `db:"site"`
	Segments        string         `db:"segments"`
	DomainName      string         `db:"domain_name"`
	ConsoleURL      string         `db:"console_url"`
	LoadBalancerIPs sql.NullString `db:"load_balancer_ips"`
	CreatedAt       sql.NullTime   `db:"created_at"`
}

func toRow(c *domain.Cluster) (*clusterRow, error) {
	segments, err := json.Marshal(c.Segments)
	if err != nil {
		return nil, err
	}

	row := &clusterRow{
		ID:          c.ID,
		ClusterName: c.ClusterName,
		Site:        c.Site,
		Segments:    string(segments),
		DomainName:  c.DomainName,
		ConsoleURL:  c.ConsoleURL,
		CreatedAt:   sql.NullTime{Time: c.CreatedAt, Valid: !c.CreatedAt.IsZero()},
	}
	if len(c.LoadBalancerIPs) > 0 {
		ips, err := json.Marshal(c.LoadBalancerIPs)
		if err != nil {
			return nil, err
		}
		row.LoadBalancerIPs = sql.NullString{String: string(ips), Valid: true}
	}
	return row, nil
}

func (r *clusterRow) toDomain() (*domain.Cluster, error) {
	cluster := &domain.Cluster{
		ID:          r.ID,
		ClusterName: r.ClusterName,
		Site:        r.Site,
		DomainName:  r.DomainName,
		ConsoleURL:  r.ConsoleURL,
		Source:      domain.SourceManual,
	}
	if r.CreatedAt.Valid {
		cluster.CreatedAt = r.CreatedAt.Time
	}
	if err := json.Unmarshal([]byte(r.Segments), &cluster.Segments); err != nil {
		return nil, fmt.Errorf("decoding segments for cluster %s: %w", r.ID, err)
	}
	if r.LoadBalancerIPs.Valid {
		if err := json.Unmarshal([]byte(r.LoadBalancerIPs.String), &cluster.LoadBalancerIPs); err != nil {
			return nil, fmt.Errorf("decoding addresses for cluster %s: %w", r.ID, err)
		}
	}
	return cluster, nil
}

const clusterColumns = `id, cluster_name, site, segments, domain_name, console_url, load_balancer_ips, created_at`

func (s *Store) CreateCluster(ctx context.Context, cluster *domain.Cluster) error {
	row, err := toRow(cluster)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO manual_clusters (`+clusterColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID, row.ClusterName, row.Site, row.Segments,
		row.DomainName, row.ConsoleURL, row.LoadBalancerIPs, row.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (s *Store) GetCluster(ctx context.Context, id string) (*domain.Cluster, error) {
	var row clusterRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+clusterColumns+` FROM manual_clusters WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *Store) GetClusterByName(ctx context.Context, name, site string) (*domain.Cluster, error) {
	var row clusterRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+clusterColumns+` FROM manual_clusters WHERE cluster_name = $1 AND site = $2`,
		name, site)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *Store) ListClusters(ctx context.Context) ([]*domain.Cluster, error) {
	var rows []clusterRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+clusterColumns+` FROM manual_clusters ORDER BY site, cluster_name`)
	if err != nil {
		return nil, err
	}
	return rowsToDomain(rows)
}

func (s *Store) ListClustersBySite(ctx context.Context, site string) ([]*domain.Cluster, error) {
	var rows []clusterRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+clusterColumns+` FROM manual_clusters WHERE site = $1 ORDER BY cluster_name`,
		site)
	if err != nil {
		return nil, err
	}
	return rowsToDomain(rows)
}

func (s *Store) UpdateCluster(ctx context.Context, cluster *domain.Cluster) error {
	row, err := toRow(cluster)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE manual_clusters
		 SET cluster_name = $1, site = $2, segments = $3, domain_name = $4,
		     console_url = $5, load_balancer_ips = $6
		 WHERE id = $7`,
		row.ClusterName, row.Site, row.Segments, row.DomainName,
		row.ConsoleURL, row.LoadBalancerIPs, row.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCluster(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM manual_clusters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) ClusterExists(ctx context.Context, name, site string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM manual_clusters WHERE cluster_name = $1 AND site = $2`,
		name, site)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListSites(ctx context.Context) ([]string, error) {
	var sites []string
	err := s.db.SelectContext(ctx, &sites,
		`SELECT DISTINCT site FROM manual_clusters ORDER BY site`)
	if err != nil {
		return nil, err
	}
	return sites, nil
}

func rowsToDomain(rows []clusterRow) ([]*domain.Cluster, error) {
	clusters := make([]*domain.Cluster, 0, len(rows))
	for i := range rows {
		cluster, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}
