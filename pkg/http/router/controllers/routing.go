package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
	helper "github.com/lintang-b-s/trafficrouter/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.computeRoutes)
	group.GET("/snapshot", api.snapshot)
	group.GET("/segments/nearby", api.nearbySegments)
}

func (api *routingAPI) computeRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()
	request := computeRoutesRequest{
		Origin:      query.Get("origin"),
		Destination: query.Get("destination"),
		Algorithm:   query.Get("algorithm"),
	}
	if request.Algorithm == "" {
		request.Algorithm = routing.ALGORITHM_DIJKSTRA
	}
	if err := validate.Struct(request); err != nil {
		BadRequestResponse(api.log, w, r, err)
		return
	}

	res, err := api.routingService.ComputeRoute(request.Origin, request.Destination, request.Algorithm)
	if err != nil {
		getStatusCode(api.log, w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"data": NewComputeRoutesResponse(res)}, nil); err != nil {
		ServerErrorResponse(api.log, w, r, err)
	}
}

func (api *routingAPI) snapshot(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	res, err := api.routingService.Snapshot()
	if err != nil {
		getStatusCode(api.log, w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewSnapshotResponse(res)}, nil); err != nil {
		ServerErrorResponse(api.log, w, r, err)
	}
}

func (api *routingAPI) nearbySegments(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearbySegmentsRequest
		err     error
	)
	query := r.URL.Query()

	request.X, err = strconv.ParseFloat(query.Get("x"), 64)
	if err != nil {
		BadRequestResponse(api.log, w, r, errors.New("x is required and must be a valid float"))
		return
	}
	request.Y, err = strconv.ParseFloat(query.Get("y"), 64)
	if err != nil {
		BadRequestResponse(api.log, w, r, errors.New("y is required and must be a valid float"))
		return
	}
	request.Radius, err = strconv.ParseFloat(query.Get("radius"), 64)
	if err != nil {
		BadRequestResponse(api.log, w, r, errors.New("radius is required and must be a valid float"))
		return
	}
	if err := validate.Struct(request); err != nil {
		BadRequestResponse(api.log, w, r, err)
		return
	}

	segments := api.routingService.NearbySegments(request.X, request.Y, request.Radius)
	if err := writeJSON(w, http.StatusOK, envelope{"data": nearbySegmentsResponse{Segments: segments}}, nil); err != nil {
		ServerErrorResponse(api.log, w, r, err)
	}
}
