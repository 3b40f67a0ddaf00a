package siri

import "sort"

// Wire envelopes for the three endpoints. Field names follow the
// provider document; every leaf whose shape varies is a FlexValue.

type linesDiscoveryResponse struct {
	Siri struct {
		LinesDelivery struct {
			AnnotatedLineRef []annotatedLineRef `json:"AnnotatedLineRef"`
		} `json:"LinesDelivery"`
	} `json:"Siri"`
}

type annotatedLineRef struct {
	LineRef      FlexValue        `json:"LineRef"`
	LineName     FlexValue        `json:"LineName"`
	LineCode     FlexValue        `json:"LineCode"`
	Destinations []destinationRef `json:"Destinations"`
}

type destinationRef struct {
	DirectionRef FlexValue `json:"DirectionRef"`
	PlaceName    FlexValue `json:"PlaceName"`
}

func (r *linesDiscoveryResponse) announcements() []LineAnnouncement {
	items := r.Siri.LinesDelivery.AnnotatedLineRef
	out := make([]LineAnnouncement, 0, len(items))
	for _, it := range items {
		ann := LineAnnouncement{
			LineRef:  it.LineRef.String(),
			LineName: it.LineName.String(),
			LineCode: it.LineCode.String(),
		}
		for _, d := range it.Destinations {
			ann.Destinations = append(ann.Destinations, Destination{
				DirectionRef: d.DirectionRef.Int(),
				PlaceName:    d.PlaceName.String(),
			})
		}
		out = append(out, ann)
	}
	return out
}

type stopPointsDiscoveryResponse struct {
	Siri struct {
		StopPointsDelivery struct {
			AnnotatedStopPointRef []annotatedStopPointRef `json:"AnnotatedStopPointRef"`
		} `json:"StopPointsDelivery"`
	} `json:"Siri"`
}

type annotatedStopPointRef struct {
	StopPointRef FlexValue   `json:"StopPointRef"`
	StopName     FlexValue   `json:"StopName"`
	Lines        []FlexValue `json:"Lines"`
}

func (r *stopPointsDiscoveryResponse) announcements() []StopAnnouncement {
	items := r.Siri.StopPointsDelivery.AnnotatedStopPointRef
	out := make([]StopAnnouncement, 0, len(items))
	for _, it := range items {
		ann := StopAnnouncement{
			StopPointRef: it.StopPointRef.String(),
			StopName:     it.StopName.String(),
		}
		for _, l := range it.Lines {
			ann.LineRefs = append(ann.LineRefs, l.String())
		}
		out = append(out, ann)
	}
	return out
}

type stopMonitoringResponse struct {
	Siri struct {
		ServiceDelivery struct {
			StopMonitoringDelivery []stopMonitoringDelivery `json:"StopMonitoringDelivery"`
		} `json:"ServiceDelivery"`
	} `json:"Siri"`
}

type stopMonitoringDelivery struct {
	MonitoredStopVisit []monitoredStopVisit `json:"MonitoredStopVisit"`
}

type monitoredStopVisit struct {
	MonitoredVehicleJourney monitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

type monitoredVehicleJourney struct {
	LineRef         FlexValue     `json:"LineRef"`
	DirectionRef    FlexValue     `json:"DirectionRef"`
	DestinationName FlexValue     `json:"DestinationName"`
	DirectionName   FlexValue     `json:"DirectionName"`
	MonitoredCall   monitoredCall `json:"MonitoredCall"`
}

type monitoredCall struct {
	AimedDepartureTime    FlexValue `json:"AimedDepartureTime"`
	AimedArrivalTime      FlexValue `json:"AimedArrivalTime"`
	ExpectedDepartureTime FlexValue `json:"ExpectedDepartureTime"`
	ExpectedArrivalTime   FlexValue `json:"ExpectedArrivalTime"`
}

func (r *stopMonitoringResponse) visits() []Visit {
	var visits []Visit
	for _, d := range r.Siri.ServiceDelivery.StopMonitoringDelivery {
		for _, msv := range d.MonitoredStopVisit {
			mvj := msv.MonitoredVehicleJourney
			call := mvj.MonitoredCall

			// Departure times when present, arrival times as fallback
			// (terminus stops only announce arrivals).
			aimed := call.AimedDepartureTime.String()
			if aimed == "" {
				aimed = call.AimedArrivalTime.String()
			}
			expected := call.ExpectedDepartureTime.String()
			if expected == "" {
				expected = call.ExpectedArrivalTime.String()
			}
			destination := mvj.DestinationName.String()
			if destination == "" {
				destination = mvj.DirectionName.String()
			}

			visits = append(visits, Visit{
				LineRef:      mvj.LineRef.String(),
				DirectionRef: mvj.DirectionRef.Int(),
				Destination:  destination,
				Aimed:        aimed,
				Expected:     expected,
				Realtime:     aimed != "" && expected != "" && aimed != expected,
			})
		}
	}
	sortVisits(visits)
	return visits
}

// sortVisits orders by the revised-or-scheduled timestamp string.
// Provider timestamps within one payload share a zone and offset, so
// string order is time order; visits with no timestamp sort first.
func sortVisits(visits []Visit) {
	sort.SliceStable(visits, func(i, j int) bool {
		return visitSortKey(visits[i]) < visitSortKey(visits[j])
	})
}

func visitSortKey(v Visit) string {
	if v.Expected != "" {
		return v.Expected
	}
	return v.Aimed
}
