package repos

import (
	"context"
	"strings"
)

// IsMongoURL reports whether dsn names a MongoDB deployment.
func IsMongoURL(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}

// Open picks the property store from the shape of dsn.
func Open(ctx context.Context, dsn string) (PropertyRepo, error) {
	if IsMongoURL(dsn) {
		return OpenMongo(ctx, dsn)
	}
	db, err := OpenDB(dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLPropertyRepo(db), nil
}
