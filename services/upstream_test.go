package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRecordsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"A"},{"title":"B"}]`))
	}))
	defer server.Close()

	records, err := fetchRecords(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFetchRecordsTitlesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"titles":[{"primaryTitle":"A"}],"totalCount":1}`))
	}))
	defer server.Close()

	records, err := fetchRecords(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchRecordsResultsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[{"title":"A"},{"title":"B"},{"title":"C"}]}`))
	}))
	defer server.Close()

	records, err := fetchRecords(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestFetchRecordsEmptyEnvelope(t *testing.T) {
	records, err := decodeRecords([]byte(`{"page":1}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchRecordsGarbageBody(t *testing.T) {
	_, err := decodeRecords([]byte(`not json`))
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FetchTransport, fe.Kind)
}

func TestFetchBodyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := fetchRecords(context.Background(), server.Client(), server.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FetchHTTPError, fe.Kind)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
}

func TestFetchBodyTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := fetchRecords(context.Background(), &http.Client{}, server.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FetchTransport, fe.Kind)
}

func TestFetchBodyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := fetchRecords(context.Background(), client, server.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FetchTimeout, fe.Kind)
}
