package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountPasscode(t *testing.T) {
	account := &Account{ID: "145531"}
	require.NoError(t, account.SetPasscode("2271"))

	assert.NotContains(t, account.PasscodeHash, "2271")
	assert.NoError(t, account.CheckPasscode("2271"))
	assert.Error(t, account.CheckPasscode("1234"))
}

func TestAccountCan(t *testing.T) {
	account := &Account{ID: "145531", Capabilities: []string{CapabilityGPImport, CapabilityDelete}}
	assert.True(t, account.Can(CapabilityDelete))
	assert.True(t, account.Can(CapabilityGPImport))

	basic := &Account{ID: "245212"}
	assert.False(t, basic.Can(CapabilityDelete))
}

func TestAccountTableFind(t *testing.T) {
	table := AccountTable{{ID: "145531"}, {ID: "245212"}}
	require.NotNil(t, table.Find("245212"))
	assert.Nil(t, table.Find("999999"))
}

func TestLoadAccountTable(t *testing.T) {
	t.Setenv("IMPORT_OPERATOR_PASSCODE", "2271")
	t.Setenv("ENTRY_OPERATOR_PASSCODE", "1234")

	table, err := LoadAccountTable()
	require.NoError(t, err)
	require.Len(t, table, 2)

	importer := table.Find("145531")
	require.NotNil(t, importer)
	assert.NoError(t, importer.CheckPasscode("2271"))
	assert.True(t, importer.Can(CapabilityGPImport))
	assert.True(t, importer.Can(CapabilityDelete))

	entry := table.Find("245212")
	require.NotNil(t, entry)
	assert.NoError(t, entry.CheckPasscode("1234"))
	assert.Error(t, entry.CheckPasscode("2271"))
	assert.False(t, entry.Can(CapabilityDelete))
	assert.False(t, entry.Can(CapabilityGPImport))
}

func TestLoadAccountTableSkipsUnsetPasscodes(t *testing.T) {
	t.Setenv("IMPORT_OPERATOR_PASSCODE", "2271")
	t.Setenv("ENTRY_OPERATOR_PASSCODE", "")

	table, err := LoadAccountTable()
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "145531", table[0].ID)
}

func TestLoadAccountTableIDOverride(t *testing.T) {
	t.Setenv("IMPORT_OPERATOR_ID", "700001")
	t.Setenv("IMPORT_OPERATOR_PASSCODE", "secret")
	t.Setenv("ENTRY_OPERATOR_PASSCODE", "")

	table, err := LoadAccountTable()
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "700001", table[0].ID)
	assert.True(t, table[0].Can(CapabilityDelete))
}
