package suntimes

import (
	"fmt"
	"strings"
)

// Airport is one row of the embedded IATA location table. Subd is the
// state/province where that disambiguates the city.
type Airport struct {
	IATA    string
	City    string
	Subd    string
	Country string
	Lat     float64
	Lon     float64
	TZ      string
}

// airports covers the major commercial airports per IANA zone, enough to
// resolve a code or pick a timezone centroid without a geo database.
var airports = []Airport{
	// US West
	{"PDX", "Portland", "Oregon", "US", 45.5887, -122.5975, "America/Los_Angeles"},
	{"SEA", "Seattle", "Washington", "US", 47.4502, -122.3088, "America/Los_Angeles"},
	{"SFO", "San Francisco", "California", "US", 37.6213, -122.3790, "America/Los_Angeles"},
	{"OAK", "Oakland", "California", "US", 37.7126, -122.2197, "America/Los_Angeles"},
	{"SJC", "San Jose", "California", "US", 37.3639, -121.9289, "America/Los_Angeles"},
	{"SMF", "Sacramento", "California", "US", 38.6954, -121.5908, "America/Los_Angeles"},
	{"LAX", "Los Angeles", "California", "US", 33.9416, -118.4085, "America/Los_Angeles"},
	{"SAN", "San Diego", "California", "US", 32.7338, -117.1933, "America/Los_Angeles"},
	{"LAS", "Las Vegas", "Nevada", "US", 36.0840, -115.1537, "America/Los_Angeles"},
	{"PHX", "Phoenix", "Arizona", "US", 33.4343, -112.0116, "America/Phoenix"},
	{"DEN", "Denver", "Colorado", "US", 39.8561, -104.6737, "America/Denver"},
	{"SLC", "Salt Lake City", "Utah", "US", 40.7899, -111.9791, "America/Denver"},
	{"ABQ", "Albuquerque", "New Mexico", "US", 35.0402, -106.6091, "America/Denver"},
	{"BOI", "Boise", "Idaho", "US", 43.5644, -116.2228, "America/Boise"},
	// US Central
	{"DFW", "Dallas-Fort Worth", "Texas", "US", 32.8998, -97.0403, "America/Chicago"},
	{"IAH", "Houston", "Texas", "US", 29.9902, -95.3368, "America/Chicago"},
	{"AUS", "Austin", "Texas", "US", 30.1975, -97.6664, "America/Chicago"},
	{"SAT", "San Antonio", "Texas", "US", 29.5312, -98.4683, "America/Chicago"},
	{"MSY", "New Orleans", "Louisiana", "US", 29.9934, -90.2580, "America/Chicago"},
	{"ORD", "Chicago", "Illinois", "US", 41.9742, -87.9073, "America/Chicago"},
	{"MDW", "Chicago", "Illinois", "US", 41.7868, -87.7522, "America/Chicago"},
	{"MSP", "Minneapolis", "Minnesota", "US", 44.8848, -93.2223, "America/Chicago"},
	{"STL", "St. Louis", "Missouri", "US", 38.7499, -90.3748, "America/Chicago"},
	{"MCI", "Kansas City", "Missouri", "US", 39.2976, -94.7139, "America/Chicago"},
	{"BNA", "Nashville", "Tennessee", "US", 36.1263, -86.6774, "America/Chicago"},
	{"OKC", "Oklahoma City", "Oklahoma", "US", 35.3931, -97.6007, "America/Chicago"},
	// US East
	{"ATL", "Atlanta", "Georgia", "US", 33.6407, -84.4277, "America/New_York"},
	{"MIA", "Miami", "Florida", "US", 25.7959, -80.2870, "America/New_York"},
	{"MCO", "Orlando", "Florida", "US", 28.4312, -81.3081, "America/New_York"},
	{"TPA", "Tampa", "Florida", "US", 27.9772, -82.5311, "America/New_York"},
	{"CLT", "Charlotte", "North Carolina", "US", 35.2144, -80.9473, "America/New_York"},
	{"RDU", "Raleigh-Durham", "North Carolina", "US", 35.8801, -78.7880, "America/New_York"},
	{"JFK", "New York", "New York", "US", 40.6413, -73.7781, "America/New_York"},
	{"LGA", "New York", "New York", "US", 40.7769, -73.8740, "America/New_York"},
	{"EWR", "Newark", "New Jersey", "US", 40.6895, -74.1745, "America/New_York"},
	{"BOS", "Boston", "Massachusetts", "US", 42.3656, -71.0096, "America/New_York"},
	{"PHL", "Philadelphia", "Pennsylvania", "US", 39.8744, -75.2424, "America/New_York"},
	{"IAD", "Washington", "Virginia", "US", 38.9531, -77.4565, "America/New_York"},
	{"DCA", "Washington", "Virginia", "US", 38.8512, -77.0402, "America/New_York"},
	{"BWI", "Baltimore", "Maryland", "US", 39.1774, -76.6684, "America/New_York"},
	{"DTW", "Detroit", "Michigan", "US", 42.2162, -83.3554, "America/Detroit"},
	{"PIT", "Pittsburgh", "Pennsylvania", "US", 40.4915, -80.2329, "America/New_York"},
	{"CLE", "Cleveland", "Ohio", "US", 41.4058, -81.8539, "America/New_York"},
	// US non-contiguous
	{"HNL", "Honolulu", "Hawaii", "US", 21.3187, -157.9225, "Pacific/Honolulu"},
	{"ANC", "Anchorage", "Alaska", "US", 61.1743, -149.9962, "America/Anchorage"},
	{"FAI", "Fairbanks", "Alaska", "US", 64.8151, -147.8560, "America/Anchorage"},
	// Canada
	{"YVR", "Vancouver", "British Columbia", "CA", 49.1947, -123.1792, "America/Vancouver"},
	{"YYC", "Calgary", "Alberta", "CA", 51.1215, -114.0076, "America/Edmonton"},
	{"YEG", "Edmonton", "Alberta", "CA", 53.3097, -113.5801, "America/Edmonton"},
	{"YWG", "Winnipeg", "Manitoba", "CA", 49.9100, -97.2399, "America/Winnipeg"},
	{"YYZ", "Toronto", "Ontario", "CA", 43.6777, -79.6248, "America/Toronto"},
	{"YOW", "Ottawa", "Ontario", "CA", 45.3225, -75.6692, "America/Toronto"},
	{"YUL", "Montreal", "Quebec", "CA", 45.4657, -73.7455, "America/Toronto"},
	{"YHZ", "Halifax", "Nova Scotia", "CA", 44.8808, -63.5086, "America/Halifax"},
	// Latin America
	{"MEX", "Mexico City", "", "MX", 19.4363, -99.0721, "America/Mexico_City"},
	{"GDL", "Guadalajara", "", "MX", 20.5218, -103.3111, "America/Mexico_City"},
	{"CUN", "Cancun", "", "MX", 21.0365, -86.8771, "America/Cancun"},
	{"PTY", "Panama City", "", "PA", 9.0714, -79.3835, "America/Panama"},
	{"BOG", "Bogota", "", "CO", 4.7016, -74.1469, "America/Bogota"},
	{"LIM", "Lima", "", "PE", -12.0219, -77.1143, "America/Lima"},
	{"SCL", "Santiago", "", "CL", -33.3930, -70.7858, "America/Santiago"},
	{"EZE", "Buenos Aires", "", "AR", -34.8222, -58.5358, "America/Argentina/Buenos_Aires"},
	{"GRU", "Sao Paulo", "", "BR", -23.4356, -46.4731, "America/Sao_Paulo"},
	{"GIG", "Rio de Janeiro", "", "BR", -22.8100, -43.2506, "America/Sao_Paulo"},
	// Europe
	{"LHR", "London", "", "GB", 51.4700, -0.4543, "Europe/London"},
	{"LGW", "London", "", "GB", 51.1537, -0.1821, "Europe/London"},
	{"MAN", "Manchester", "", "GB", 53.3537, -2.2750, "Europe/London"},
	{"EDI", "Edinburgh", "", "GB", 55.9508, -3.3615, "Europe/London"},
	{"DUB", "Dublin", "", "IE", 53.4264, -6.2499, "Europe/Dublin"},
	{"CDG", "Paris", "", "FR", 49.0097, 2.5479, "Europe/Paris"},
	{"ORY", "Paris", "", "FR", 48.7262, 2.3652, "Europe/Paris"},
	{"NCE", "Nice", "", "FR", 43.6584, 7.2159, "Europe/Paris"},
	{"AMS", "Amsterdam", "", "NL", 52.3105, 4.7683, "Europe/Amsterdam"},
	{"BRU", "Brussels", "", "BE", 50.9010, 4.4856, "Europe/Brussels"},
	{"FRA", "Frankfurt", "", "DE", 50.0379, 8.5622, "Europe/Berlin"},
	{"MUC", "Munich", "", "DE", 48.3538, 11.7861, "Europe/Berlin"},
	{"BER", "Berlin", "", "DE", 52.3667, 13.5033, "Europe/Berlin"},
	{"HAM", "Hamburg", "", "DE", 53.6304, 9.9882, "Europe/Berlin"},
	{"ZRH", "Zurich", "", "CH", 47.4582, 8.5555, "Europe/Zurich"},
	{"GVA", "Geneva", "", "CH", 46.2381, 6.1089, "Europe/Zurich"},
	{"VIE", "Vienna", "", "AT", 48.1103, 16.5697, "Europe/Vienna"},
	{"PRG", "Prague", "", "CZ", 50.1008, 14.2632, "Europe/Prague"},
	{"WAW", "Warsaw", "", "PL", 52.1672, 20.9679, "Europe/Warsaw"},
	{"BUD", "Budapest", "", "HU", 47.4298, 19.2611, "Europe/Budapest"},
	{"CPH", "Copenhagen", "", "DK", 55.6180, 12.6508, "Europe/Copenhagen"},
	{"OSL", "Oslo", "", "NO", 60.1976, 11.1004, "Europe/Oslo"},
	{"ARN", "Stockholm", "", "SE", 59.6498, 17.9237, "Europe/Stockholm"},
	{"HEL", "Helsinki", "", "FI", 60.3183, 24.9497, "Europe/Helsinki"},
	{"KEF", "Reykjavik", "", "IS", 63.9850, -22.6056, "Atlantic/Reykjavik"},
	{"LIS", "Lisbon", "", "PT", 38.7756, -9.1354, "Europe/Lisbon"},
	{"OPO", "Porto", "", "PT", 41.2481, -8.6814, "Europe/Lisbon"},
	{"MAD", "Madrid", "", "ES", 40.4983, -3.5676, "Europe/Madrid"},
	{"BCN", "Barcelona", "", "ES", 41.2971, 2.0785, "Europe/Madrid"},
	{"FCO", "Rome", "", "IT", 41.8003, 12.2389, "Europe/Rome"},
	{"MXP", "Milan", "", "IT", 45.6306, 8.7281, "Europe/Rome"},
	{"ATH", "Athens", "", "GR", 37.9364, 23.9445, "Europe/Athens"},
	{"IST", "Istanbul", "", "TR", 41.2753, 28.7519, "Europe/Istanbul"},
	{"SVO", "Moscow", "", "RU", 55.9726, 37.4146, "Europe/Moscow"},
	{"LED", "St. Petersburg", "", "RU", 59.8003, 30.2625, "Europe/Moscow"},
	{"LYR", "Longyearbyen", "Svalbard", "NO", 78.2461, 15.4656, "Arctic/Longyearbyen"},
	// Middle East and Africa
	{"DXB", "Dubai", "", "AE", 25.2532, 55.3657, "Asia/Dubai"},
	{"AUH", "Abu Dhabi", "", "AE", 24.4330, 54.6511, "Asia/Dubai"},
	{"DOH", "Doha", "", "QA", 25.2731, 51.6081, "Asia/Qatar"},
	{"TLV", "Tel Aviv", "", "IL", 32.0055, 34.8854, "Asia/Jerusalem"},
	{"AMM", "Amman", "", "JO", 31.7226, 35.9932, "Asia/Amman"},
	{"CAI", "Cairo", "", "EG", 30.1219, 31.4056, "Africa/Cairo"},
	{"CMN", "Casablanca", "", "MA", 33.3675, -7.5900, "Africa/Casablanca"},
	{"LOS", "Lagos", "", "NG", 6.5774, 3.3212, "Africa/Lagos"},
	{"ADD", "Addis Ababa", "", "ET", 8.9779, 38.7993, "Africa/Addis_Ababa"},
	{"NBO", "Nairobi", "", "KE", -1.3192, 36.9278, "Africa/Nairobi"},
	{"JNB", "Johannesburg", "", "ZA", -26.1367, 28.2411, "Africa/Johannesburg"},
	{"CPT", "Cape Town", "", "ZA", -33.9715, 18.6021, "Africa/Johannesburg"},
	// South Asia
	{"DEL", "Delhi", "", "IN", 28.5562, 77.1000, "Asia/Kolkata"},
	{"BOM", "Mumbai", "", "IN", 19.0896, 72.8656, "Asia/Kolkata"},
	{"BLR", "Bengaluru", "", "IN", 13.1986, 77.7066, "Asia/Kolkata"},
	{"MAA", "Chennai", "", "IN", 12.9941, 80.1709, "Asia/Kolkata"},
	{"KHI", "Karachi", "", "PK", 24.9065, 67.1608, "Asia/Karachi"},
	{"DAC", "Dhaka", "", "BD", 23.8433, 90.3978, "Asia/Dhaka"},
	{"CMB", "Colombo", "", "LK", 7.1808, 79.8841, "Asia/Colombo"},
	// Southeast and East Asia
	{"BKK", "Bangkok", "", "TH", 13.6900, 100.7501, "Asia/Bangkok"},
	{"SIN", "Singapore", "", "SG", 1.3644, 103.9915, "Asia/Singapore"},
	{"KUL", "Kuala Lumpur", "", "MY", 2.7456, 101.7099, "Asia/Kuala_Lumpur"},
	{"CGK", "Jakarta", "", "ID", -6.1256, 106.6559, "Asia/Jakarta"},
	{"MNL", "Manila", "", "PH", 14.5086, 121.0194, "Asia/Manila"},
	{"SGN", "Ho Chi Minh City", "", "VN", 10.8188, 106.6520, "Asia/Ho_Chi_Minh"},
	{"HKG", "Hong Kong", "", "HK", 22.3080, 113.9185, "Asia/Hong_Kong"},
	{"TPE", "Taipei", "", "TW", 25.0797, 121.2342, "Asia/Taipei"},
	{"PVG", "Shanghai", "", "CN", 31.1443, 121.8083, "Asia/Shanghai"},
	{"PEK", "Beijing", "", "CN", 40.0799, 116.6031, "Asia/Shanghai"},
	{"CAN", "Guangzhou", "", "CN", 23.3924, 113.2988, "Asia/Shanghai"},
	{"ICN", "Seoul", "", "KR", 37.4602, 126.4407, "Asia/Seoul"},
	{"GMP", "Seoul", "", "KR", 37.5583, 126.7906, "Asia/Seoul"},
	{"NRT", "Tokyo", "", "JP", 35.7720, 140.3929, "Asia/Tokyo"},
	{"HND", "Tokyo", "", "JP", 35.5494, 139.7798, "Asia/Tokyo"},
	{"KIX", "Osaka", "", "JP", 34.4347, 135.2441, "Asia/Tokyo"},
	{"CTS", "Sapporo", "", "JP", 42.7752, 141.6923, "Asia/Tokyo"},
	{"OKA", "Naha", "", "JP", 26.1958, 127.6459, "Asia/Tokyo"},
	// Oceania
	{"SYD", "Sydney", "New South Wales", "AU", -33.9399, 151.1753, "Australia/Sydney"},
	{"MEL", "Melbourne", "Victoria", "AU", -37.6690, 144.8410, "Australia/Melbourne"},
	{"BNE", "Brisbane", "Queensland", "AU", -27.3842, 153.1175, "Australia/Brisbane"},
	{"PER", "Perth", "Western Australia", "AU", -31.9385, 115.9672, "Australia/Perth"},
	{"ADL", "Adelaide", "South Australia", "AU", -34.9285, 138.5307, "Australia/Adelaide"},
	{"AKL", "Auckland", "", "NZ", -37.0082, 174.7850, "Pacific/Auckland"},
	{"WLG", "Wellington", "", "NZ", -41.3272, 174.8053, "Pacific/Auckland"},
	{"CHC", "Christchurch", "", "NZ", -43.4894, 172.5324, "Pacific/Auckland"},
	{"NAN", "Nadi", "", "FJ", -17.7554, 177.4434, "Pacific/Fiji"},
	{"PPT", "Papeete", "", "PF", -17.5537, -149.6070, "Pacific/Tahiti"},
	{"GUM", "Hagatna", "", "GU", 13.4834, 144.7960, "Pacific/Guam"},
}

func lookupAirport(code string) (Airport, bool) {
	for _, a := range airports {
		if a.IATA == code {
			return a, true
		}
	}
	return Airport{}, false
}

// displayName formats an airport as "City, Subd, Country (CODE)".
func (a Airport) displayName() string {
	parts := []string{a.City}
	if a.Subd != "" {
		parts = append(parts, a.Subd)
	}
	parts = append(parts, a.Country)
	return fmt.Sprintf("%s (%s)", strings.Join(parts, ", "), a.IATA)
}
