// Package mongodb implements tenancy.Repository on MongoDB.
//
// Three collections are used: tenants (numeric id, unique uuid,
// soft-delete via deleted_at), tenant_users (one document per
// membership, unique on tenant_id+user_id), and users (carrying
// current_tenant_id). Documents mirror the SQL schema so applications can
// switch backends without changing tenancy semantics.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tenantkit/tenantkit/pkg/tenancy"
)

// Repository is the MongoDB-backed tenancy.Repository.
type Repository struct {
	tenants     *mongo.Collection
	memberships *mongo.Collection
	users       *mongo.Collection
}

// NewRepository creates a repository on the given database handle.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		tenants:     db.Collection("tenants"),
		memberships: db.Collection("tenant_users"),
		users:       db.Collection("users"),
	}
}

func liveTenant(filter bson.M) bson.M {
	filter["deleted_at"] = nil
	return filter
}

// FindByID retrieves a tenant by its numeric ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*tenancy.Tenant, error) {
	var t tenancy.Tenant
	err := r.tenants.FindOne(ctx, liveTenant(bson.M{"id": id})).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenancy.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return &t, nil
}

// All lists every live tenant ordered by creation time.
func (r *Repository) All(ctx context.Context) ([]tenancy.Tenant, error) {
	cursor, err := r.tenants.Find(ctx, liveTenant(bson.M{}),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	var tenants []tenancy.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, fmt.Errorf("decode tenants: %w", err)
	}
	return tenants, nil
}

// Membership retrieves the membership document for (userID, tenantID).
func (r *Repository) Membership(ctx context.Context, userID, tenantID int64) (*tenancy.Membership, error) {
	var m tenancy.Membership
	err := r.memberships.FindOne(ctx, bson.M{"user_id": userID, "tenant_id": tenantID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenancy.ErrTenantNotFound
		}
		return nil, fmt.Errorf("load membership: %w", err)
	}
	return &m, nil
}

// TenantForUser retrieves a tenant only when the user holds a membership
// for it.
func (r *Repository) TenantForUser(ctx context.Context, userID, tenantID int64) (*tenancy.Tenant, error) {
	if _, err := r.Membership(ctx, userID, tenantID); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, tenantID)
}

// TenantsForUser lists all live tenants the user belongs to, oldest
// membership first.
func (r *Repository) TenantsForUser(ctx context.Context, userID int64) ([]tenancy.Tenant, error) {
	cursor, err := r.memberships.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	var memberships []tenancy.Membership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, fmt.Errorf("decode memberships: %w", err)
	}

	tenants := make([]tenancy.Tenant, 0, len(memberships))
	for _, m := range memberships {
		t, err := r.FindByID(ctx, m.TenantID)
		if err != nil {
			if errors.Is(err, tenancy.ErrTenantNotFound) {
				// Membership pointing at a soft-deleted tenant.
				continue
			}
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	return tenants, nil
}

// SetCurrentTenant persists the user's default tenant pointer.
func (r *Repository) SetCurrentTenant(ctx context.Context, userID, tenantID int64) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$set": bson.M{"current_tenant_id": tenantID}})
	if err != nil {
		return fmt.Errorf("set current tenant: %w", err)
	}
	if result.MatchedCount == 0 {
		return tenancy.ErrTenantNotFound
	}
	return nil
}
