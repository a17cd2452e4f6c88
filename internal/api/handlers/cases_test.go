package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCases(t *testing.T) {
	ts := testutil.NewTestServer(t)

	lawyer, _ := testutil.NewUserBuilder().WithRole(domain.RoleLawyer).Build(t, ts.DB.DB)
	client, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	otherClient, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	mine := testutil.NewCaseBuilder(client.ID, lawyer.ID).WithTitle("My Case").Build(t, ts.DB.DB)
	testutil.NewCaseBuilder(otherClient.ID, lawyer.ID).WithTitle("Not Mine").Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/cases"), token, nil)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		Cases []domain.Case `json:"cases"`
	}
	testutil.AssertJSONResponse(t, resp, &body)

	require.Len(t, body.Cases, 1)
	assert.Equal(t, mine.ID, body.Cases[0].ID)
}

func TestListCases_LawyerSeesAssignedCases(t *testing.T) {
	ts := testutil.NewTestServer(t)

	client, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	lawyer, token := testutil.NewUserBuilder().WithRole(domain.RoleLawyer).BuildAndAuthenticate(t, ts)

	testutil.NewCaseBuilder(client.ID, lawyer.ID).Build(t, ts.DB.DB)
	testutil.NewCaseBuilder(client.ID, lawyer.ID).Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/cases"), token, nil)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		Cases []domain.Case `json:"cases"`
	}
	testutil.AssertJSONResponse(t, resp, &body)
	assert.Len(t, body.Cases, 2)
}

func TestGetCase(t *testing.T) {
	ts := testutil.NewTestServer(t)

	lawyer, _ := testutil.NewUserBuilder().WithRole(domain.RoleLawyer).Build(t, ts.DB.DB)
	client, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	kase := testutil.NewCaseBuilder(client.ID, lawyer.ID).WithTitle("Contract Dispute").Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/cases/"+kase.ID.String()), token, nil)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var got domain.Case
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, kase.ID, got.ID)
	assert.Equal(t, "Contract Dispute", got.Title)
}

func TestGetCase_NotOwned(t *testing.T) {
	ts := testutil.NewTestServer(t)

	lawyer, _ := testutil.NewUserBuilder().WithRole(domain.RoleLawyer).Build(t, ts.DB.DB)
	otherClient, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	foreign := testutil.NewCaseBuilder(otherClient.ID, lawyer.ID).Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/cases/"+foreign.ID.String()), token, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Case not found")
}

func TestGetCase_BadID(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/cases/not-a-uuid"), token, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid case id")
}

func TestListCaseQuotes(t *testing.T) {
	ts := testutil.NewTestServer(t)

	lawyer, _ := testutil.NewUserBuilder().WithRole(domain.RoleLawyer).Build(t, ts.DB.DB)
	client, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	kase := testutil.NewCaseBuilder(client.ID, lawyer.ID).Build(t, ts.DB.DB)

	accepted := testutil.NewQuoteBuilder(kase.ID).Build(t, ts.DB.DB)
	testutil.NewQuoteBuilder(kase.ID).WithStatus(domain.QuoteStatusPending).Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/cases/"+kase.ID.String()+"/quotes"), token, nil)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		Quotes []domain.Quote `json:"quotes"`
	}
	testutil.AssertJSONResponse(t, resp, &body)

	require.Len(t, body.Quotes, 2)
	ids := []uuid.UUID{body.Quotes[0].ID, body.Quotes[1].ID}
	assert.Contains(t, ids, accepted.ID)
}

func TestListCaseQuotes_ForeignCase(t *testing.T) {
	ts := testutil.NewTestServer(t)

	lawyer, _ := testutil.NewUserBuilder().WithRole(domain.RoleLawyer).Build(t, ts.DB.DB)
	otherClient, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	foreign := testutil.NewCaseBuilder(otherClient.ID, lawyer.ID).Build(t, ts.DB.DB)
	testutil.NewQuoteBuilder(foreign.ID).Build(t, ts.DB.DB)

	resp := doRequest(t, http.MethodGet, ts.APIURL("/cases/"+foreign.ID.String()+"/quotes"), token, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Case not found")
}
