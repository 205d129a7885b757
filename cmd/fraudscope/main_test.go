package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCSV = `transaction_id,charged_amount,state,fraud,merchant_name
1,150.00,declined,1,Coffee Shop
2,50.00,declined,0,Book Store
3,9.99,pending,1,coffee roasters
4,1200.00,completed,0,Airline
`

const ruleYAML = `name: Large declines
category: Transaction Amount
description: Declined charges over 100
filters:
  - column: charged_amount
    operator: greater_than
    value: "100"
  - column: state
    operator: equals
    value: declined
filterConnectors: [AND]
threshold:
  operator: greater_than
  value: "3"
`

// setupCLI points every command at a scratch database and dataset.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(testCSV), 0o644))
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Setenv("FRAUDSCOPE_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("FRAUDSCOPE_DATABASE_PATH", filepath.Join(dir, "fraudscope.db"))
	t.Setenv("FRAUDSCOPE_DATA_SOURCE", filepath.Join(dir, "data.csv"))
	t.Setenv("FRAUDSCOPE_LOG_LEVEL", "error")
	t.Setenv("FRAUDSCOPE_INGEST_MAX_ATTEMPTS", "1")
	t.Setenv("FRAUDSCOPE_AUTH_PASSWORD_HASH", string(hash))
	t.Setenv("FRAUDSCOPE_PASSWORD", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	dir := setupCLI(t)
	metrics := filepath.Join(dir, "metrics.prom")

	out, err := execute(t, "", "stats", "--metrics-textfile", metrics)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Transactions  4")
	assert.Contains(t, out, "Fraud Cases         2")
	assert.Contains(t, out, "Declined            2")
	assert.Contains(t, out, "Fraud Rate          50.00%")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fraudscope_ingest_records 4")
	assert.Contains(t, string(data), "fraudscope_ingest_attempts_total 1")
}

func TestQueryCommand(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "query", "--fraud", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 to 2 of 2 results")
	assert.Contains(t, out, "Coffee Shop")
	assert.NotContains(t, out, "Airline")

	out, err = execute(t, "", "query", "--sort", "charged_amount", "--desc", "--page-size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "$1,200")
	assert.Contains(t, out, "Page 1 of 4")

	out, err = execute(t, "", "query", "--sort", "charged_amount", "--page-size", "1", "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 4 to 4 of 4 results")
	assert.Contains(t, out, "$1,200")

	out, err = execute(t, "", "query", "--search", "no such merchant")
	require.NoError(t, err)
	assert.Contains(t, out, "No data available")
}

func TestQueryMissingDataset(t *testing.T) {
	dir := setupCLI(t)
	t.Setenv("FRAUDSCOPE_DATA_SOURCE", filepath.Join(dir, "nope.csv"))

	_, err := execute(t, "", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load transactions")
}

func TestRulesCommands(t *testing.T) {
	dir := setupCLI(t)
	file := filepath.Join(dir, "rule.yaml")
	require.NoError(t, os.WriteFile(file, []byte(ruleYAML), 0o644))

	out, err := execute(t, "", "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No rules yet")

	out, err = execute(t, "", "rules", "template")
	require.NoError(t, err)
	assert.Contains(t, out, "filterConnectors: []")
	assert.Contains(t, out, "reAlertDays: 7")

	out, err = execute(t, "", "rules", "create", "-f", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Rule created successfully")

	out, err = execute(t, "", "rules", "list", "-o", "json")
	require.NoError(t, err)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stored))
	require.Len(t, stored, 1)
	id := stored[0]["id"].(string)
	assert.Equal(t, "Large declines", stored[0]["name"])
	assert.Equal(t, []any{"AND"}, stored[0]["filterConnectors"])

	out, err = execute(t, "", "rules", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "name: Large declines")

	out, err = execute(t, "", "rules", "duplicate", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Rule duplicated successfully")

	out, err = execute(t, "", "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Large declines (Copy)")

	_, err = execute(t, "", "rules", "deactivate", id)
	require.NoError(t, err)
	out, err = execute(t, "", "rules", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "active: false")

	updated := strings.Replace(ruleYAML, "Large declines", "Very large declines", 1)
	out, err = execute(t, updated, "rules", "update", id, "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Rule updated successfully")

	out, err = execute(t, "", "rules", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Rule deleted successfully")

	out, err = execute(t, "", "rules", "history")
	require.NoError(t, err)
	for _, action := range []string{"created", "duplicated", "updated", "deleted"} {
		assert.Contains(t, out, action)
	}

	_, err = execute(t, "", "rules", "show", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule not found")
}

func TestRulesCreateRejectsInvalid(t *testing.T) {
	dir := setupCLI(t)
	file := filepath.Join(dir, "rule.yaml")
	bad := strings.Replace(ruleYAML, "column: charged_amount", "column: charged_amout", 1)
	require.NoError(t, os.WriteFile(file, []byte(bad), 0o644))

	_, err := execute(t, "", "rules", "create", "-f", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "charged_amount"?`)

	_, err = execute(t, "", "rules", "create")
	require.Error(t, err)

	out, err := execute(t, "", "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No rules yet")
}

func TestLoginLogout(t *testing.T) {
	setupCLI(t)

	_, err := execute(t, "", "login", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid username or password")

	out, err := execute(t, "s3cret\n", "login", "-u", "test")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as test")

	out, err = execute(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
}

func TestPasswd(t *testing.T) {
	out, err := execute(t, "", "passwd", "--password", "hunter2")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}

func TestPasswdWrite(t *testing.T) {
	dir := setupCLI(t)
	cfgPath := filepath.Join(dir, "config.toml")
	t.Setenv("FRAUDSCOPE_CONFIG", cfgPath)
	t.Setenv("FRAUDSCOPE_AUTH_PASSWORD_HASH", "")

	out, err := execute(t, "", "passwd", "--write", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "Password updated")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "password_hash")

	_, err = execute(t, "", "login", "--password", "yesiwill")
	require.Error(t, err)

	out, err = execute(t, "", "login", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as test")
}

func TestResetNeedsConfirmation(t *testing.T) {
	dir := setupCLI(t)
	file := filepath.Join(dir, "rule.yaml")
	require.NoError(t, os.WriteFile(file, []byte(ruleYAML), 0o644))
	_, err := execute(t, "", "rules", "create", "-f", file)
	require.NoError(t, err)

	_, err = execute(t, "", "reset")
	require.Error(t, err)

	out, err := execute(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Local data reset")

	out, err = execute(t, "", "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No rules yet")
}
