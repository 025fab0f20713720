package sos

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"petties/config"
	"petties/models"
	"petties/utils"

	"go.uber.org/zap"
)

// fallbackSpeedKmh is the assumed travel speed when no routing provider is
// available and the ETA is derived from straight-line distance.
const fallbackSpeedKmh = 40.0

// DistanceEstimator computes road distance and ETA between two points.
type DistanceEstimator interface {
	EstimateRoute(ctx context.Context, from, to models.GeoPoint) (distanceKm float64, etaMinutes int, err error)
}

// HaversineEstimator is the provider-free fallback: great-circle distance at
// an assumed average speed.
type HaversineEstimator struct{}

func (HaversineEstimator) EstimateRoute(_ context.Context, from, to models.GeoPoint) (float64, int, error) {
	km := haversine(from.Lat(), from.Lng(), to.Lat(), to.Lng())
	eta := int(math.Ceil(km / fallbackSpeedKmh * 60))
	return km, eta, nil
}

// GoogleDistanceEstimator asks the Google Directions API for road distance
// and duration, degrading to the haversine fallback on any failure.
type GoogleDistanceEstimator struct {
	APIKey   string
	Client   *http.Client
	Fallback HaversineEstimator
}

func NewGoogleDistanceEstimator() *GoogleDistanceEstimator {
	return &GoogleDistanceEstimator{
		APIKey: config.AppConfig.GoogleAPIKey,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

// directionsResponse is the slice of the Directions API payload we read.
type directionsResponse struct {
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"` // metres
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
	Status string `json:"status"`
}

func (g *GoogleDistanceEstimator) EstimateRoute(ctx context.Context, from, to models.GeoPoint) (float64, int, error) {
	if g.APIKey == "" {
		return g.Fallback.EstimateRoute(ctx, from, to)
	}

	url := fmt.Sprintf(
		"https://maps.googleapis.com/maps/api/directions/json?origin=%f,%f&destination=%f,%f&key=%s",
		from.Lat(), from.Lng(), to.Lat(), to.Lng(), g.APIKey,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return g.Fallback.EstimateRoute(ctx, from, to)
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		utils.GetLogger().Warn("directions provider unreachable, using haversine", zap.Error(err))
		return g.Fallback.EstimateRoute(ctx, from, to)
	}
	defer resp.Body.Close()

	var directions directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&directions); err != nil ||
		directions.Status != "OK" || len(directions.Routes) == 0 {
		return g.Fallback.EstimateRoute(ctx, from, to)
	}

	var metres, seconds int
	for _, leg := range directions.Routes[0].Legs {
		metres += leg.Distance.Value
		seconds += leg.Duration.Value
	}
	if metres == 0 {
		return g.Fallback.EstimateRoute(ctx, from, to)
	}
	return float64(metres) / 1000, int(math.Ceil(float64(seconds) / 60)), nil
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
