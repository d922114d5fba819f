package hotels

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"oneclick/amadeus"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
)

func TestChunkIDs(t *testing.T) {
	ids := make([]string, 23)
	for i := range ids {
		ids[i] = fmt.Sprintf("H%02d", i)
	}

	chunks := chunkIDs(ids, 10)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 10)
	require.Len(t, chunks[1], 10)
	require.Len(t, chunks[2], 3)
	require.Equal(t, "H00", chunks[0][0])
	require.Equal(t, "H22", chunks[2][2])

	require.Nil(t, chunkIDs(nil, 10))
}

func TestCategorizeErrors(t *testing.T) {
	details := []amadeus.ErrorDetail{
		errDetail(1257, "hotelIds=AAA,BBB"),
		errDetail(3664, "hotelIds=CCC"),
		errDetail(9999, "hotelIds=DDD"),
		// repeated id in another fatal error must not duplicate
		errDetail(1351, "hotelIds=AAA"),
	}

	fatal, ignorable, unmapped := categorizeErrors(details)
	require.Equal(t, []string{"AAA", "BBB"}, fatal)
	require.Equal(t, []string{"CCC"}, ignorable)
	require.Equal(t, []string{"DDD"}, unmapped)
}

func TestCategorizeErrorsEmptyParameter(t *testing.T) {
	fatal, ignorable, unmapped := categorizeErrors([]amadeus.ErrorDetail{errDetail(1257, "")})
	require.Empty(t, fatal)
	require.Empty(t, ignorable)
	require.Empty(t, unmapped)
}

func errDetail(code int, parameter string) amadeus.ErrorDetail {
	var d amadeus.ErrorDetail
	d.Code = code
	d.Detail = "test error"
	d.Source.Parameter = parameter
	return d
}

// fakeAmadeus serves a hotel directory and per-chunk offer responses,
// failing the chunk that contains a marked hotel id.
func fakeAmadeus(t *testing.T, hotelIDs []string, failingID string, failCode int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/reference-data/locations/hotels/by-city"):
			listings := make([]map[string]interface{}, 0, len(hotelIDs))
			for _, id := range hotelIDs {
				listings = append(listings, map[string]interface{}{
					"hotelId": id,
					"name":    "Hotel " + id,
				})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"data": listings})

		case strings.HasPrefix(r.URL.Path, "/v3/shopping/hotel-offers"):
			ids := strings.Split(r.URL.Query().Get("hotelIds"), ",")
			for _, id := range ids {
				if id == failingID {
					w.WriteHeader(http.StatusBadRequest)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"errors": []map[string]interface{}{{
							"code":   failCode,
							"title":  "INVALID PROPERTY CODE",
							"detail": "invalid property",
							"source": map[string]string{"parameter": "hotelIds=" + failingID},
						}},
					})
					return
				}
			}
			offers := make([]map[string]interface{}, 0, len(ids))
			for _, id := range ids {
				offers = append(offers, map[string]interface{}{
					"hotel":     map[string]string{"hotelId": id, "name": "Hotel " + id},
					"available": true,
				})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"data": offers})

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func searchByCity(t *testing.T, server *httptest.Server, query url.Values) map[string]interface{} {
	t.Helper()
	handler := NewHandler(amadeus.NewClientForBase(server.URL))

	r := httptest.NewRequest(http.MethodGet, "/api/hotels/search/city?"+query.Encode(), nil)
	w := httptest.NewRecorder()
	handler.SearchByCity(w, r, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSearchByCityFailedChunkDoesNotAbortSiblings(t *testing.T) {
	// 15 hotels make two chunks; BAD sits in the first one
	ids := []string{"BAD"}
	for i := 1; i < 15; i++ {
		ids = append(ids, fmt.Sprintf("H%02d", i))
	}
	server := fakeAmadeus(t, ids, "BAD", 1257)
	defer server.Close()

	body := searchByCity(t, server, url.Values{
		"cityCode":     {"PAR"},
		"checkInDate":  {"2026-09-01"},
		"checkOutDate": {"2026-09-05"},
	})

	// the second chunk's 5 offers survive the first chunk's failure
	results := body["results"].([]interface{})
	require.Len(t, results, 5)

	meta := body["meta"].(map[string]interface{})
	failed := meta["failedHotels"].(map[string]interface{})
	require.Equal(t, []interface{}{"BAD"}, failed["fatal"].([]interface{}))
	require.Empty(t, failed["ignorable"].([]interface{}))
	require.Empty(t, failed["temporary"].([]interface{}))
}

func TestSearchByCityIgnorableAndUnmappedCodes(t *testing.T) {
	server := fakeAmadeus(t, []string{"SOLD"}, "SOLD", 3664)
	defer server.Close()

	body := searchByCity(t, server, url.Values{
		"cityCode":     {"PAR"},
		"checkInDate":  {"2026-09-01"},
		"checkOutDate": {"2026-09-05"},
	})

	failed := body["meta"].(map[string]interface{})["failedHotels"].(map[string]interface{})
	require.Equal(t, []interface{}{"SOLD"}, failed["ignorable"].([]interface{}))

	server2 := fakeAmadeus(t, []string{"ODD"}, "ODD", 8888)
	defer server2.Close()

	body = searchByCity(t, server2, url.Values{
		"cityCode":     {"PAR"},
		"checkInDate":  {"2026-09-01"},
		"checkOutDate": {"2026-09-05"},
	})

	failed = body["meta"].(map[string]interface{})["failedHotels"].(map[string]interface{})
	require.Equal(t, []interface{}{"ODD"}, failed["temporary"].([]interface{}))
}

func TestSearchByCityMergesListingGeoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/reference-data/locations/hotels/by-city"):
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]interface{}{{
				"hotelId": "AAA",
				"name":    "Hotel AAA",
				"geoCode": map[string]float64{"latitude": 48.85, "longitude": 2.35},
				"address": map[string]string{"cityName": "PARIS"},
			}}})
		case strings.HasPrefix(r.URL.Path, "/v3/shopping/hotel-offers"):
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]interface{}{{
				"hotel":     map[string]string{"hotelId": "AAA", "name": "Hotel AAA"},
				"available": true,
			}}})
		}
	}))
	defer server.Close()

	body := searchByCity(t, server, url.Values{
		"cityCode":     {"PAR"},
		"checkInDate":  {"2026-09-01"},
		"checkOutDate": {"2026-09-05"},
	})

	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	hotel := results[0].(map[string]interface{})["hotel"].(map[string]interface{})
	require.Equal(t, 48.85, hotel["latitude"])
	require.Equal(t, 2.35, hotel["longitude"])
	require.Equal(t, "PARIS", hotel["address"].(map[string]interface{})["cityName"])
}

func TestSearchByCityWithoutDatesReturnsDirectory(t *testing.T) {
	server := fakeAmadeus(t, []string{"AAA", "BBB"}, "", 0)
	defer server.Close()

	body := searchByCity(t, server, url.Values{"cityCode": {"PAR"}})

	results := body["results"].([]interface{})
	require.Len(t, results, 2)
	meta := body["meta"].(map[string]interface{})
	require.Nil(t, meta["failedHotels"])
}

func TestSearchByCityRequiresCityCode(t *testing.T) {
	handler := NewHandler(amadeus.NewClientForBase("http://unused"))

	r := httptest.NewRequest(http.MethodGet, "/api/hotels/search/city", nil)
	w := httptest.NewRecorder()
	handler.SearchByCity(w, r, httprouter.Params{})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchOffersRequiresDates(t *testing.T) {
	handler := NewHandler(amadeus.NewClientForBase("http://unused"))

	r := httptest.NewRequest(http.MethodGet, "/api/hotels/offers?hotelIds=AAA", nil)
	w := httptest.NewRecorder()
	handler.SearchOffers(w, r, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
