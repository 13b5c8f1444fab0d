package catalogRepo

import (
	"testing"
	"time"

	"repairright/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearchFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, searchFilter(""))

	f := searchFilter("a+b")
	clauses, ok := f["$or"].([]bson.M)
	assert.True(t, ok)
	assert.Len(t, clauses, 4)
	assert.Equal(t, primitive.Regex{Pattern: `a\+b`, Options: "i"}, clauses[0]["name"])
}

func TestSortOption(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}, sortOption(models.SortPriceAsc))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}, sortOption(models.SortPriceDesc))
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, sortOption(models.SortNewest))
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sortOption("bogus"))
}

func TestUpdateDocumentOnlySetsProvidedFields(t *testing.T) {
	now := time.Now()
	name := "Leaky Faucet Fix"
	price := 75.0

	set := updateDocument(models.ServiceUpdate{Name: &name, Price: &price}, now)

	assert.Equal(t, bson.M{"updatedAt": now, "name": name, "price": price}, set)
	assert.NotContains(t, set, "provider")
}
