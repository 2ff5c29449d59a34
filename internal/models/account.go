package models

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

const (
	CapabilityDelete   = "delete"
	CapabilityGPImport = "gp_import"
)

// Account is one operator in the static access table. Passcodes are only
// ever held hashed.
type Account struct {
	ID           string
	PasscodeHash string
	Capabilities []string
}

func (a *Account) SetPasscode(passcode string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasscodeHash = string(hash)
	return nil
}

func (a *Account) CheckPasscode(passcode string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasscodeHash), []byte(passcode))
}

func (a *Account) Can(capability string) bool {
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type AccountTable []*Account

func (t AccountTable) Find(id string) *Account {
	for _, account := range t {
		if account.ID == id {
			return account
		}
	}
	return nil
}

// LoadAccountTable builds the operator table from the environment. The
// import operator additionally holds the delete and GP-import capabilities.
// Passcodes are hashed on load; an operator whose passcode variable is unset
// is left out of the table and cannot log in.
func LoadAccountTable() (AccountTable, error) {
	seeds := []struct {
		idVar        string
		passVar      string
		defaultID    string
		capabilities []string
	}{
		{"IMPORT_OPERATOR_ID", "IMPORT_OPERATOR_PASSCODE", "145531", []string{CapabilityGPImport, CapabilityDelete}},
		{"ENTRY_OPERATOR_ID", "ENTRY_OPERATOR_PASSCODE", "245212", nil},
	}

	var table AccountTable
	for _, seed := range seeds {
		id := os.Getenv(seed.idVar)
		if id == "" {
			id = seed.defaultID
		}
		passcode := os.Getenv(seed.passVar)
		if passcode == "" {
			log.Printf("%s not set, operator %s disabled", seed.passVar, id)
			continue
		}
		account := &Account{ID: id, Capabilities: seed.capabilities}
		if err := account.SetPasscode(passcode); err != nil {
			return nil, fmt.Errorf("failed to hash passcode for operator %s: %v", id, err)
		}
		table = append(table, account)
	}
	return table, nil
}
