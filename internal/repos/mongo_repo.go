package repos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"estatehub/internal/domain"
)

const (
	defaultMongoDatabase = "estatehub"
	propertyCollection   = "properties"
)

type propertyDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Image       *string            `bson:"image,omitempty"`
	Description *string            `bson:"description,omitempty"`
	Address     *string            `bson:"address,omitempty"`
	Price       *float64           `bson:"price,omitempty"`
}

func (d propertyDoc) toDomain() domain.Property {
	return domain.Property{
		ID:          d.ID.Hex(),
		Image:       d.Image,
		Description: d.Description,
		Address:     d.Address,
		Price:       d.Price,
	}
}

// MongoPropertyRepo keeps properties as documents, ids are ObjectID hex strings.
type MongoPropertyRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func OpenMongo(ctx context.Context, uri string) (*MongoPropertyRepo, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, errors.Wrap(err, "parse mongodb uri")
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = defaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}
	log.Info().Str("database", dbName).Msg("mongodb store ready")
	return &MongoPropertyRepo{
		client: client,
		coll:   client.Database(dbName).Collection(propertyCollection),
	}, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func (r *MongoPropertyRepo) List(ctx context.Context) ([]domain.Property, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "list properties")
	}
	var docs []propertyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode properties")
	}
	out := make([]domain.Property, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoPropertyRepo) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	doc := propertyDoc{
		ID:          primitive.NewObjectID(),
		Image:       p.Image,
		Description: p.Description,
		Address:     p.Address,
		Price:       p.Price,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Property{}, errors.Wrap(err, "insert property")
	}
	return doc.toDomain(), nil
}

func (r *MongoPropertyRepo) Get(ctx context.Context, id string) (domain.Property, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Property{}, err
	}
	var doc propertyDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Property{}, ErrNotFound
	}
	if err != nil {
		return domain.Property{}, errors.Wrapf(err, "get property %s", id)
	}
	return doc.toDomain(), nil
}

func (r *MongoPropertyRepo) Update(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Property{}, err
	}
	if patch.Empty() {
		return r.Get(ctx, id)
	}

	set := bson.M{}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}

	var doc propertyDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Property{}, ErrNotFound
	}
	if err != nil {
		return domain.Property{}, errors.Wrapf(err, "update property %s", id)
	}
	return doc.toDomain(), nil
}

func (r *MongoPropertyRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrapf(err, "delete property %s", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPropertyRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoPropertyRepo) Close() error {
	return r.client.Disconnect(context.Background())
}
