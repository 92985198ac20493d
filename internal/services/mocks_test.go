package services

import (
	"context"
	"errors"

	"github.com/vvka-141/updater/pkg/updater"
)

type mockExtractor struct {
	results    []updater.NamedDataset
	err        error
	executed   []updater.QuerySpec
	closeCalls int
}

func (m *mockExtractor) ExecuteAll(_ context.Context, specs []updater.QuerySpec) ([]updater.NamedDataset, error) {
	m.executed = append(m.executed, specs...)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockExtractor) Close() error {
	m.closeCalls++
	return nil
}

type mockOpener struct {
	extractor *mockExtractor
	err       error
	calls     int
	lastConn  *updater.ConnectionConfig
}

func (m *mockOpener) open(_ context.Context, connConfig *updater.ConnectionConfig) (updater.Extractor, error) {
	m.calls++
	m.lastConn = connConfig
	if m.err != nil {
		return nil, m.err
	}
	return m.extractor, nil
}

type mockSerializer struct {
	err error
}

func (m *mockSerializer) Encode(d *updater.Dataset) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte(d.ColumnNames()[0]), nil
}

func (m *mockSerializer) Decode(_ []byte) (*updater.Dataset, error) {
	return nil, errors.New("not implemented")
}

type mockUploader struct {
	upload  updater.CallResult
	reload  updater.CallResult
	batches []*updater.Batch
	reloads int
}

func (m *mockUploader) Upload(_ context.Context, batch *updater.Batch) updater.CallResult {
	m.batches = append(m.batches, batch)
	return m.upload
}

func (m *mockUploader) Reload(_ context.Context) updater.CallResult {
	m.reloads++
	return m.reload
}
