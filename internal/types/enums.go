// Package types holds the request and response payloads of the HTTP API.
// Every payload validates itself against its schema with go-openapi/validate.
package types

import (
	"github.com/go-openapi/validate"
)

const (
	FamilyEvm     string = "evm"
	FamilyUtxo    string = "utxo"
	FamilyEd25519 string = "ed25519"
)

var familyEnum = []interface{}{FamilyEvm, FamilyUtxo, FamilyEd25519}

func validateFamilyEnum(path, location string, value string) error {
	if err := validate.EnumCase(path, location, value, familyEnum, true); err != nil {
		return err
	}
	return nil
}

const (
	AuthMethodGoogle    string = "google"
	AuthMethodEmailLink string = "email-link"
	AuthMethodAnonymous string = "anonymous"
	AuthMethodWallet    string = "wallet"
)

var authMethodEnum = []interface{}{AuthMethodGoogle, AuthMethodEmailLink, AuthMethodAnonymous, AuthMethodWallet}

func validateAuthMethodEnum(path, location string, value string) error {
	if err := validate.EnumCase(path, location, value, authMethodEnum, true); err != nil {
		return err
	}
	return nil
}
