/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type baseEntity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type Account struct {
	baseEntity
	Name    string
	Balance float64 `json:"balance,omitempty"`
	Tags    []string
	secret  string
}

type Audited struct {
	*Account
	Reviewer string
}

type Address struct {
	Street string
	City   string
}

type Customer struct {
	Name    string
	Address Address
	Home    *Address
}

func TestFields(t *testing.T) {
	t.Run("PromotedFieldsIncluded", func(t *testing.T) {
		fields := FieldsOf[Account]()

		assert.Equal(t, []string{"Balance", "CreatedAt", "ID", "Name", "Tags"}, fields.Names())
		assert.Equal(t, 5, fields.Len())

		d, ok := fields.Lookup("ID")
		require.True(t, ok)
		assert.Equal(t, []int{0, 0}, d.Index)
		assert.True(t, d.Direct)
		assert.Equal(t, reflect.TypeOf(""), d.Type)
	})

	t.Run("CaseInsensitiveLookup", func(t *testing.T) {
		fields := FieldsOf[Account]()
		for _, name := range []string{"name", "NAME", "nAmE"} {
			d, ok := fields.Lookup(name)
			require.True(t, ok, name)
			assert.Equal(t, "Name", d.Name)
		}
	})

	t.Run("JSONAlias", func(t *testing.T) {
		fields := FieldsOf[Account]()

		d, ok := fields.Lookup("created_at")
		require.True(t, ok)
		assert.Equal(t, "CreatedAt", d.Name)
		assert.Equal(t, "created_at", d.Alias)

		_, ok = fields.Lookup("balance")
		assert.True(t, ok)
	})

	t.Run("LookupNameIgnoresAliases", func(t *testing.T) {
		fields := FieldsOf[Account]()

		d, ok := fields.LookupName("createdat")
		require.True(t, ok)
		assert.Equal(t, "CreatedAt", d.Name)

		_, ok = fields.LookupName("created_at")
		assert.False(t, ok)

		// Alias equal to the Go name ignoring case still matches by name.
		_, ok = fields.LookupName("balance")
		assert.True(t, ok)
		_, ok = fields.LookupName("nope")
		assert.False(t, ok)
	})

	t.Run("UnexportedAndUnknownExcluded", func(t *testing.T) {
		fields := FieldsOf[Account]()
		_, ok := fields.Lookup("secret")
		assert.False(t, ok)
		_, ok = fields.Lookup("baseEntity")
		assert.False(t, ok)
		_, ok = fields.Lookup("nope")
		assert.False(t, ok)
	})

	t.Run("PointerEmbeddingIsNotDirect", func(t *testing.T) {
		d, ok := FieldsOf[Audited]().Lookup("Name")
		require.True(t, ok)
		assert.False(t, d.Direct)

		d, ok = FieldsOf[Audited]().Lookup("Reviewer")
		require.True(t, ok)
		assert.True(t, d.Direct)
	})

	t.Run("PointerTypeResolvesToElem", func(t *testing.T) {
		assert.Same(t, FieldsOf[Account](), Fields(reflect.TypeOf(&Account{})))
	})

	t.Run("NonStructIsEmpty", func(t *testing.T) {
		assert.Equal(t, 0, FieldsOf[int]().Len())
		assert.Equal(t, 0, FieldsOf[map[string]any]().Len())
		assert.Equal(t, 0, Fields(nil).Len())
	})

	t.Run("AllIsACopy", func(t *testing.T) {
		all := FieldsOf[Customer]().All()
		all[0].Name = "changed"
		d, _ := FieldsOf[Customer]().Lookup("Name")
		assert.Equal(t, "Name", d.Name)
	})
}

func TestFieldsConcurrentFirstUse(t *testing.T) {
	type fresh struct {
		A int
		B string
	}

	var wg sync.WaitGroup
	results := make([]*TypeFields, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = FieldsOf[fresh]()
		}(i)
	}
	wg.Wait()

	for _, tf := range results {
		assert.Same(t, results[0], tf)
	}
}
