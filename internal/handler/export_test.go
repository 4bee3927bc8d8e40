package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/tourcsv"
)

func exportFixture() []domain.Tour {
	dest := int64(7)
	return []domain.Tour{
		{
			ID: 36, Space: domain.SpacePerson, Owner: domain.OwnerPerson, OwnerID: 1, PersonID: 1, TourType: "work",
			TourTypeNum: 1, TourTypeCount: 1, TourNum: 1, TourCount: 1,
			Category: domain.CategoryMandatory, Mandatory: true, Destination: &dest,
		},
		{
			ID: 35, Space: domain.SpaceJoint, Owner: domain.OwnerHousehold, OwnerID: 5, HouseholdID: 5, TourType: "shopping",
			TourTypeNum: 1, TourTypeCount: 1, TourNum: 1, TourCount: 1,
		},
	}
}

func exportSvc(tours []domain.Tour) *mockExportServicer {
	return &mockExportServicer{export: func(context.Context) ([]domain.Tour, error) { return tours, nil }}
}

// ---- GET /export (JSON) ---------------------------------------------------

func TestGetExport_DefaultJSON_EmptyResult(t *testing.T) {
	rec := get(t, newHTTPHandler(nil, exportSvc(nil)), "/export")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetExport_JSON(t *testing.T) {
	rec := get(t, newHTTPHandler(nil, exportSvc(exportFixture())), "/export?format=json")

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []domain.Tour
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, domain.SpaceJoint, rows[1].Space)
	assert.Equal(t, int64(5), rows[1].HouseholdID)
}

// ---- GET /export (CSV) ----------------------------------------------------

func TestGetExport_CSV(t *testing.T) {
	rec := get(t, newHTTPHandler(nil, exportSvc(exportFixture())), "/export?format=csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tours.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, tourcsv.Header, records[0])
	assert.Equal(t, "36", records[1][0])
	assert.Equal(t, "joint", records[2][1])
}

func TestGetExport_UnknownFormat_422(t *testing.T) {
	rec := get(t, newHTTPHandler(nil, exportSvc(nil)), "/export?format=xml")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "format must be json or csv", decodeError(t, rec).Message)
}
