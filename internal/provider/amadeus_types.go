package provider

// Wire shapes of the external travel API. Only the fields the mapper reads.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type flightOffersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	Itineraries []itinerary `json:"itineraries"`
	Price       offerPrice  `json:"price"`
}

type itinerary struct {
	Segments []segment `json:"segments"`
}

type segment struct {
	Departure   segmentPoint `json:"departure"`
	Arrival     segmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
}

type segmentPoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type offerPrice struct {
	Total string `json:"total"`
}

type locationResponse struct {
	Data []locationData `json:"data"`
}

type locationData struct {
	IataCode string `json:"iataCode"`
}

type hotelOffersResponse struct {
	Data []hotelOfferData `json:"data"`
}

type hotelOfferData struct {
	Hotel  hotelData          `json:"hotel"`
	Offers []hotelOfferDetail `json:"offers"`
}

type hotelData struct {
	Name      string       `json:"name"`
	CityCode  string       `json:"cityCode"`
	Rating    string       `json:"rating"`
	Amenities []string     `json:"amenities"`
	Address   hotelAddress `json:"address"`
}

type hotelAddress struct {
	Lines       []string `json:"lines"`
	CityName    string   `json:"cityName"`
	CountryCode string   `json:"countryCode"`
}

type hotelOfferDetail struct {
	Price offerPrice `json:"price"`
}
