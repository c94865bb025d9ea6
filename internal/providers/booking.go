package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wayfare/internal/ratelimit"
	"wayfare/pkg/logger"
)

const bookingProviderName = "booking"

// hotelFanOutCap bounds the per-hotel offer and sentiment fetches.
const hotelFanOutCap = 5

// BookingClient talks to the Amadeus-compatible flight/hotel API.
// All payloads are decoded once here into explicit typed structs; callers
// never see raw provider JSON.
type BookingClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenStore
	limiter    *ratelimit.ProviderLimiter
	log        logger.Logger
}

type BookingConfig struct {
	BaseURL string
	Key     string
	Secret  string
	Timeout time.Duration
}

func NewBookingClient(cfg BookingConfig, limiter *ratelimit.ProviderLimiter, log logger.Logger) *BookingClient {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	c := &BookingClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		log:        log,
	}
	c.tokens = NewTokenStore(clientCredentialsSource(httpClient, c.baseURL, cfg.Key, cfg.Secret))
	return c
}

// clientCredentialsSource exchanges key/secret for a bearer token.
func clientCredentialsSource(httpClient *http.Client, baseURL, key, secret string) TokenSource {
	return func(ctx context.Context) (string, time.Duration, error) {
		form := url.Values{}
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", key)
		form.Set("client_secret", secret)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
		if err != nil {
			return "", 0, NewError(bookingProviderName, KindAuth, err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := httpClient.Do(req)
		if err != nil {
			return "", 0, NewError(bookingProviderName, KindNetwork, err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			return "", 0, NewError(bookingProviderName, KindAuth,
				fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body)))
		}

		var result struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int    `json:"expires_in"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return "", 0, NewError(bookingProviderName, KindParse,
				fmt.Errorf("failed to parse token response: %w", err))
		}
		return result.AccessToken, time.Duration(result.ExpiresIn) * time.Second, nil
	}
}

// doRequest performs one authenticated GET. A 401 clears the cached token
// and retries exactly once; a second 401 is a hard auth failure.
func (c *BookingClient) doRequest(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, bookingProviderName); err != nil {
		return nil, NewError(bookingProviderName, KindNetwork, err)
	}

	body, status, err := c.attempt(ctx, path)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.log.Warn("booking token rejected, refreshing and retrying once", "path", path)
		c.tokens.Invalidate()
		body, status, err = c.attempt(ctx, path)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, NewError(bookingProviderName, KindAuth,
				fmt.Errorf("unauthorized after token refresh"))
		}
	}
	if status < 200 || status >= 300 {
		return nil, NewError(bookingProviderName, KindProvider,
			fmt.Errorf("status %d: %s", status, truncate(string(body), 200)))
	}
	return body, nil
}

func (c *BookingClient) attempt(ctx context.Context, path string) ([]byte, int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, NewError(bookingProviderName, KindNetwork, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, NewError(bookingProviderName, KindNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ─── Flights ───

type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	CabinClass    string
}

type SegmentPoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type Segment struct {
	Departure   SegmentPoint `json:"departure"`
	Arrival     SegmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Aircraft    struct {
		Code string `json:"code"`
	} `json:"aircraft"`
	Operating struct {
		CarrierCode string `json:"carrierCode"`
	} `json:"operating"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type FlightPrice struct {
	Currency   string `json:"currency"`
	Base       string `json:"base"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

type BagAllowance struct {
	Quantity int `json:"quantity"`
}

type Amenity struct {
	Description string `json:"description"`
}

type FareDetail struct {
	Cabin               string        `json:"cabin"`
	IncludedCheckedBags *BagAllowance `json:"includedCheckedBags"`
	IncludedCabinBags   *BagAllowance `json:"includedCabinBags"`
	Amenities           []Amenity     `json:"amenities"`
}

type TravelerPricing struct {
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment"`
}

type FlightOffer struct {
	ID                    string            `json:"id"`
	NumberOfBookableSeats int               `json:"numberOfBookableSeats"`
	LastTicketingDate     string            `json:"lastTicketingDate"`
	Itineraries           []Itinerary       `json:"itineraries"`
	Price                 FlightPrice       `json:"price"`
	TravelerPricings      []TravelerPricing `json:"travelerPricings"`
}

// SearchFlights queries the flight-offers endpoint.
func (c *BookingClient) SearchFlights(ctx context.Context, q FlightQuery) ([]FlightOffer, error) {
	if q.Origin == "" || q.Destination == "" {
		return nil, NewError(bookingProviderName, KindValidation,
			fmt.Errorf("origin and destination are required"))
	}
	if q.Adults <= 0 {
		q.Adults = 1
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartureDate)
	params.Set("adults", fmt.Sprintf("%d", q.Adults))
	params.Set("max", "10")
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	if q.CabinClass != "" {
		params.Set("travelClass", strings.ToUpper(q.CabinClass))
	}

	body, err := c.doRequest(ctx, "/v2/shopping/flight-offers?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []FlightOffer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewError(bookingProviderName, KindParse,
			fmt.Errorf("failed to parse flight offers: %w", err))
	}
	return resp.Data, nil
}

// ─── Hotels ───

type HotelQuery struct {
	CityCode string
	CheckIn  string
	CheckOut string
	Adults   int
}

type Hotel struct {
	HotelID string `json:"hotelId"`
	Name    string `json:"name"`
	GeoCode struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"geoCode"`
	Address struct {
		CityName string   `json:"cityName"`
		Lines    []string `json:"lines"`
	} `json:"address"`
	Distance struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	} `json:"distance"`
}

type HotelOffer struct {
	ID       string `json:"id"`
	HotelID  string `json:"hotelId"`
	CheckIn  string `json:"checkInDate"`
	CheckOut string `json:"checkOutDate"`
	Room     struct {
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
	} `json:"room"`
	Price struct {
		Currency string `json:"currency"`
		Total    string `json:"total"`
	} `json:"price"`
}

type SentimentScores struct {
	Service      int `json:"service"`
	Location     int `json:"location"`
	Facilities   int `json:"facilities"`
	Staff        int `json:"staff"`
	SleepQuality int `json:"sleepQuality"`
}

// HotelSentiment carries review scores on the provider's 0-100 scale.
type HotelSentiment struct {
	HotelID       string          `json:"hotelId"`
	OverallRating int             `json:"overallRating"`
	Sentiments    SentimentScores `json:"sentiments"`
}

type HotelSearchResult struct {
	Hotels     []Hotel
	Offers     []HotelOffer
	Sentiments []HotelSentiment
}

// SearchHotels runs the three-step hotel flow: list by city, then offers and
// sentiments for at most the first five hotels. Offer or sentiment failures
// for individual hotels degrade the result instead of failing it.
func (c *BookingClient) SearchHotels(ctx context.Context, q HotelQuery) (*HotelSearchResult, error) {
	if q.CityCode == "" {
		return nil, NewError(bookingProviderName, KindValidation,
			fmt.Errorf("city code is required"))
	}
	if q.Adults <= 0 {
		q.Adults = 1
	}

	hotels, err := c.listHotels(ctx, q.CityCode)
	if err != nil {
		return nil, err
	}

	result := &HotelSearchResult{Hotels: hotels}
	if len(hotels) == 0 {
		return result, nil
	}

	capped := hotels
	if len(capped) > hotelFanOutCap {
		capped = capped[:hotelFanOutCap]
	}
	ids := make([]string, 0, len(capped))
	for _, h := range capped {
		ids = append(ids, h.HotelID)
	}

	offers, err := c.hotelOffers(ctx, ids, q)
	if err != nil {
		c.log.Warn("hotel offers fetch failed", "city", q.CityCode, "error", err)
	} else {
		result.Offers = offers
	}

	sentiments, err := c.hotelSentiments(ctx, ids)
	if err != nil {
		c.log.Warn("hotel sentiments fetch failed", "city", q.CityCode, "error", err)
	} else {
		result.Sentiments = sentiments
	}
	return result, nil
}

func (c *BookingClient) listHotels(ctx context.Context, cityCode string) ([]Hotel, error) {
	params := url.Values{}
	params.Set("cityCode", cityCode)
	params.Set("radius", "5")
	params.Set("radiusUnit", "KM")

	body, err := c.doRequest(ctx, "/v1/reference-data/locations/hotels/by-city?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Hotel `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewError(bookingProviderName, KindParse,
			fmt.Errorf("failed to parse hotel list: %w", err))
	}
	return resp.Data, nil
}

func (c *BookingClient) hotelOffers(ctx context.Context, hotelIDs []string, q HotelQuery) ([]HotelOffer, error) {
	params := url.Values{}
	params.Set("hotelIds", strings.Join(hotelIDs, ","))
	params.Set("adults", fmt.Sprintf("%d", q.Adults))
	params.Set("bestRateOnly", "true")
	if q.CheckIn != "" {
		params.Set("checkInDate", q.CheckIn)
	}
	if q.CheckOut != "" {
		params.Set("checkOutDate", q.CheckOut)
	}

	body, err := c.doRequest(ctx, "/v3/shopping/hotel-offers?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			Hotel struct {
				HotelID string `json:"hotelId"`
			} `json:"hotel"`
			Available bool         `json:"available"`
			Offers    []HotelOffer `json:"offers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewError(bookingProviderName, KindParse,
			fmt.Errorf("failed to parse hotel offers: %w", err))
	}

	var offers []HotelOffer
	for _, item := range resp.Data {
		if !item.Available || len(item.Offers) == 0 {
			continue
		}
		for _, o := range item.Offers {
			if o.HotelID == "" {
				o.HotelID = item.Hotel.HotelID
			}
			offers = append(offers, o)
		}
	}
	return offers, nil
}

func (c *BookingClient) hotelSentiments(ctx context.Context, hotelIDs []string) ([]HotelSentiment, error) {
	params := url.Values{}
	params.Set("hotelIds", strings.Join(hotelIDs, ","))

	body, err := c.doRequest(ctx, "/v2/e-reputation/hotel-sentiments?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []HotelSentiment `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewError(bookingProviderName, KindParse,
			fmt.Errorf("failed to parse hotel sentiments: %w", err))
	}
	return resp.Data, nil
}
