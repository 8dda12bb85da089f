/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/delta/errors"
)

func TestNewField(t *testing.T) {
	t.Run("ByName", func(t *testing.T) {
		f, err := NewField[Account, float64]("balance")
		require.NoError(t, err)
		assert.Equal(t, "Balance", f.Name())
		assert.True(t, f.Valid())
		assert.Equal(t, "registry.Account.Balance", f.String())
	})

	t.Run("UnknownName", func(t *testing.T) {
		_, err := NewField[Account, string]("Nickname")
		assert.True(t, errors.IsUnknownField(err))
	})

	t.Run("WrongValueType", func(t *testing.T) {
		_, err := NewField[Account, int]("Balance")
		assert.True(t, errors.IsInvalidAccessor(err))
	})

	t.Run("MustFieldPanics", func(t *testing.T) {
		assert.Panics(t, func() { MustField[Account, string]("Nickname") })
		assert.NotPanics(t, func() { MustField[Account, time.Time]("CreatedAt") })
	})

	t.Run("ZeroKeyIsInvalid", func(t *testing.T) {
		var f Field[Account, string]
		assert.False(t, f.Valid())
	})
}

func TestFieldFor(t *testing.T) {
	t.Run("DirectField", func(t *testing.T) {
		f, err := FieldFor(func(a *Account) *string { return &a.Name })
		require.NoError(t, err)
		assert.Equal(t, "Name", f.Name())
	})

	t.Run("PromotedField", func(t *testing.T) {
		f, err := FieldFor(func(a *Account) *time.Time { return &a.CreatedAt })
		require.NoError(t, err)
		assert.Equal(t, "CreatedAt", f.Name())
	})

	t.Run("StructValuedField", func(t *testing.T) {
		f, err := FieldFor(func(c *Customer) *Address { return &c.Address })
		require.NoError(t, err)
		assert.Equal(t, "Address", f.Name())
	})

	t.Run("NestedMemberRejected", func(t *testing.T) {
		_, err := FieldFor(func(c *Customer) *string { return &c.Address.City })
		assert.True(t, errors.IsInvalidAccessor(err))
	})

	t.Run("ComputedValueRejected", func(t *testing.T) {
		_, err := FieldFor(func(a *Account) *string {
			s := a.Name + "!"
			return &s
		})
		assert.True(t, errors.IsInvalidAccessor(err))
	})

	t.Run("NilResultRejected", func(t *testing.T) {
		_, err := FieldFor(func(a *Account) *string { return nil })
		assert.True(t, errors.IsInvalidAccessor(err))
	})

	t.Run("PanickingAccessorRejected", func(t *testing.T) {
		_, err := FieldFor(func(c *Customer) *string { return &c.Home.Street })
		assert.True(t, errors.IsInvalidAccessor(err))
	})

	t.Run("NilAccessorRejected", func(t *testing.T) {
		_, err := FieldFor[Account, string](nil)
		assert.True(t, errors.IsInvalidAccessor(err))
	})
}
