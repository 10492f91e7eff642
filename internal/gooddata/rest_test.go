package gooddata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
)

func testRestClient(t *testing.T, handler http.Handler) *RestClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	snowflake := SnowflakeConnection{
		User: "loader", Password: "hunter2", Account: "acme-eu",
		Warehouse: "COMPUTE_WH", Role: "LOADER", Port: "443",
	}
	return NewRestClient(server.URL, "test-token", snowflake, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSnowflakeConnection_JDBCURL(t *testing.T) {
	conn := SnowflakeConnection{Account: "acme-eu", Port: "443", Warehouse: "COMPUTE_WH"}
	assert.Equal(t, "jdbc:snowflake://acme-eu.snowflakecomputing.com:443?warehouse=COMPUTE_WH", conn.JDBCURL())
}

func TestRestClient_WorkspaceExists(t *testing.T) {
	t.Run("existing_workspace", func(t *testing.T) {
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "/api/v1/entities/workspaces/ws-1", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))

		exists, err := client.WorkspaceExists(context.Background(), "ws-1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing_workspace", func(t *testing.T) {
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		exists, err := client.WorkspaceExists(context.Background(), "ws-ghost")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("remote_failure", func(t *testing.T) {
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))

		_, err := client.WorkspaceExists(context.Background(), "ws-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}

func TestRestClient_CreateWorkspace(t *testing.T) {
	t.Run("updates_an_existing_workspace_in_place", func(t *testing.T) {
		var methods []string
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			w.WriteHeader(http.StatusOK)
		}))

		err := client.CreateWorkspace(context.Background(), Workspace{ID: "ws-1", Name: "Sales"})
		require.NoError(t, err)
		assert.Equal(t, []string{http.MethodPut}, methods)
	})

	t.Run("falls_back_to_post_when_put_404s", func(t *testing.T) {
		var posted workspaceDocument
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPost:
				require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
				w.WriteHeader(http.StatusCreated)
			}
		}))

		parent := "ws-parent"
		err := client.CreateWorkspace(context.Background(), Workspace{ID: "ws-1", Name: "Sales", ParentID: &parent})
		require.NoError(t, err)
		assert.Equal(t, "ws-1", posted.Data.ID)
		assert.Equal(t, "workspace", posted.Data.Type)
		assert.Equal(t, "Sales", posted.Data.Attributes.Name)
		require.NotNil(t, posted.Data.Relationships)
		assert.Equal(t, "ws-parent", posted.Data.Relationships.Parent.Data.ID)
	})
}

func TestRestClient_WorkspacePermissions(t *testing.T) {
	t.Run("get_converts_nested_assignees", func(t *testing.T) {
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"permissions": [
					{"name": "MANAGE", "assignee": {"id": "u-john", "type": "user"}},
					{"name": "VIEW", "assignee": {"id": "g-dev", "type": "userGroup"}}
				],
				"hierarchyPermissions": [{"name": "VIEW", "assignee": {"id": "g-org", "type": "userGroup"}}]
			}`)
		}))

		perms, err := client.GetWorkspacePermissions(context.Background(), "ws-1")
		require.NoError(t, err)
		require.Len(t, perms.Permissions, 2)
		assert.Equal(t, PermissionAssignment{Name: "MANAGE", AssigneeID: "u-john", AssigneeType: AssigneeUser}, perms.Permissions[0])
		assert.Equal(t, AssigneeGroup, perms.Permissions[1].AssigneeType)
		assert.Len(t, perms.HierarchyPermissions, 1)
	})

	t.Run("put_sends_empty_list_not_null", func(t *testing.T) {
		var body map[string]any
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusOK)
		}))

		err := client.PutWorkspacePermissions(context.Background(), "ws-1", &DeclarativePermissions{})
		require.NoError(t, err)
		assert.Equal(t, []any{}, body["permissions"])
	})
}

func TestRestClient_PutUserPermissions_normalizes_nil_slices(t *testing.T) {
	var body map[string]any
	client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/layout/users/u-john/permissions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))

	err := client.PutUserPermissions(context.Background(), "u-john", &PermissionAssignments{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, body["workspaces"])
	assert.Equal(t, []any{}, body["dataSources"])
}

func TestRestClient_CreateDataSource(t *testing.T) {
	var putBody dataSourceDocument
	client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			fmt.Fprint(w, `{"data": {"id": "acme_sales_1_datasource_storage_raw",
				"type": "dataSource",
				"attributes": {"name": "Sales DS", "schema": "SALES"}}}`)
		}
	}))

	ds, err := client.CreateDataSource(context.Background(), DataSourceSpec{
		ID: "acme_sales_1_datasource_storage_raw", Name: "Sales DS", Database: "FINANCE", Schema: "SALES",
	})
	require.NoError(t, err)

	assert.Equal(t, "SNOWFLAKE", putBody.Data.Attributes.Type)
	assert.Equal(t, "jdbc:snowflake://acme-eu.snowflakecomputing.com:443?warehouse=COMPUTE_WH&db=FINANCE", putBody.Data.Attributes.URL)
	assert.Equal(t, "loader", putBody.Data.Attributes.Username)
	assert.Equal(t, "SALES", putBody.Data.Attributes.Schema)

	assert.Equal(t, "acme_sales_1_datasource_storage_raw", ds.ID)
	assert.Equal(t, "Sales DS", ds.Name)
	assert.Equal(t, "SALES", ds.Schema)
}

func TestRestClient_ScanDataSource(t *testing.T) {
	client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/actions/dataSources/my_ds/scan", r.URL.Path)
		var req scanRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.ScanTables)
		assert.True(t, req.ScanViews)
		fmt.Fprint(w, `{"pdm": {"tables": [{"id": "ORDERS", "type": "TABLE"}]}, "warnings": ["skipped view X"]}`)
	}))

	model, err := client.ScanDataSource(context.Background(), "my_ds")
	require.NoError(t, err)
	require.Len(t, model.Tables, 1)
	assert.Equal(t, "ORDERS", model.Tables[0].ID)
	assert.Equal(t, []string{"skipped view X"}, model.Warnings)
}

func TestRestClient_GenerateLogicalModel(t *testing.T) {
	client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateLDMRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ws-1", req.WorkspaceID)
		require.Len(t, req.PDM.Tables, 1)
		fmt.Fprint(w, `{"declarativeModel": {"ldm": {"datasets": [{"id": "orders"}], "dateInstances": []}}}`)
	}))

	ldm, err := client.GenerateLogicalModel(context.Background(), "my_ds", []PhysicalTable{{ID: "ORDERS"}}, "ws-1")
	require.NoError(t, err)
	require.Len(t, ldm.Datasets, 1)
	assert.Equal(t, "orders", ldm.Datasets[0]["id"])
}

func TestRestClient_ListUsers_pages_through_the_collection(t *testing.T) {
	client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page[number]")
		var out userCollection
		switch page {
		case "0":
			for i := 0; i < principalPageSize; i++ {
				out.Data = append(out.Data, struct {
					ID         string `json:"id"`
					Attributes struct {
						Email string `json:"email"`
					} `json:"attributes"`
				}{ID: fmt.Sprintf("u-%d", i)})
			}
		case "1":
			out.Data = append(out.Data, struct {
				ID         string `json:"id"`
				Attributes struct {
					Email string `json:"email"`
				} `json:"attributes"`
			}{ID: "u-last"})
		}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, principalPageSize+1)
	assert.Equal(t, "u-last", users[principalPageSize].ID)
}

func TestRestClient_UserDataFilters(t *testing.T) {
	t.Run("list_maps_relationships", func(t *testing.T) {
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data": [{
				"id": "region-filter",
				"type": "userDataFilter",
				"attributes": {"maql": "{label/region} = \"EMEA\"", "title": "Region filter"},
				"relationships": {"user": {"data": {"id": "u-john", "type": "user"}}}
			}]}`)
		}))

		filters, err := client.ListUserDataFilters(context.Background(), "ws-1")
		require.NoError(t, err)
		require.Len(t, filters, 1)
		assert.Equal(t, UserDataFilterEntity{
			ID: "region-filter", Title: "Region filter", MAQL: `{label/region} = "EMEA"`, UserID: "u-john",
		}, filters[0])
	})

	t.Run("create_falls_back_to_post_when_put_404s", func(t *testing.T) {
		var posted userDataFilterDocument
		client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPost:
				require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
				w.WriteHeader(http.StatusCreated)
			}
		}))

		err := client.CreateUserDataFilter(context.Background(), "ws-1", UserDataFilterEntity{
			ID: "region-filter", Title: "Region filter", MAQL: `{label/region} = "EMEA"`, UserID: "u-john",
		})
		require.NoError(t, err)
		assert.Equal(t, "region-filter", posted.Data.ID)
		assert.Equal(t, "u-john", posted.Data.Relationships.User.Data.ID)
	})
}

func TestRestClient_ExportWorkspace_maps_404(t *testing.T) {
	client := testRestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.ExportWorkspace(context.Background(), "ws-ghost")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
