package world

// initialAlignment is the 2027 starting map in declaration order. Order
// matters: projections list factions by first appearance in this table.
var initialAlignment = []CountryEntry{
	{"IN", FactionIndia},
	{"FR", FactionEU},
	{"DE", FactionEU},
	{"IT", FactionEU},
	{"ES", FactionEU},
	{"PL", FactionEU},
	{"NL", FactionEU},
	{"BE", FactionEU},
	{"SE", FactionEU},
	{"CZ", FactionEU},
	{"GR", FactionEU},
	{"PT", FactionEU},
	{"HU", FactionEU},
	{"AT", FactionEU},
	{"DK", FactionEU},
	{"FI", FactionEU},
	{"SK", FactionEU},
	{"IE", FactionEU},
	{"HR", FactionEU},
	{"BG", FactionEU},
	{"RO", FactionEU},
	{"SI", FactionEU},
	{"LT", FactionEU},
	{"LV", FactionEU},
	{"EE", FactionEU},
	{"LU", FactionEU},
	{"UA", FactionEU},
	{"GB", FactionEU},
	{"RU", FactionRussia},
	{"SY", FactionRussia},
	{"KZ", FactionRussia},
	{"BY", FactionRussia},
	{"CN", FactionChina},
	{"PS", FactionChina},
	{"KP", FactionChina},
	{"PK", FactionChina},
	{"VN", FactionChina},
	{"US", FactionUSA},
	{"CA", FactionUSA},
	{"JP", FactionUSA},
	{"KR", FactionUSA},
	{"IL", FactionUSA},
	{"MX", FactionUSA},
	{"ZA", FactionCorporate},
	{"AF", FactionRogue},
	{"BR", FactionNeutral},
	{"EG", FactionNeutral},
	{"TR", FactionNeutral},
	{"IR", FactionRussia},
	{"CH", FactionNeutral},
	{"NO", FactionNeutral},
	{"IS", FactionNeutral},
	{"RS", FactionNeutral},
	{"BA", FactionNeutral},
	{"AL", FactionNeutral},
	{"MK", FactionNeutral},
	{"MD", FactionNeutral},
	{"ME", FactionNeutral},
	{"XK", FactionNeutral},
	{"AR", FactionNeutral},
	{"CL", FactionNeutral},
	{"CO", FactionNeutral},
	{"PE", FactionNeutral},
	{"VE", FactionNeutral},
	{"ID", FactionNeutral},
	{"TH", FactionNeutral},
	{"DZ", FactionNeutral},
	{"ET", FactionNeutral},
	{"KE", FactionNeutral},
	{"NG", FactionNeutral},
	{"UY", FactionNeutral},
	{"PY", FactionNeutral},
	{"BO", FactionNeutral},
	{"EC", FactionNeutral},
	{"GT", FactionNeutral},
	{"HN", FactionNeutral},
	{"SV", FactionNeutral},
	{"NI", FactionNeutral},
	{"CR", FactionNeutral},
	{"PA", FactionNeutral},
	{"CU", FactionNeutral},
	{"DO", FactionNeutral},
	{"HT", FactionNeutral},
	{"JM", FactionNeutral},
	{"MA", FactionNeutral},
	{"ML", FactionNeutral},
	{"SD", FactionNeutral},
	{"SS", FactionNeutral},
	{"TD", FactionNeutral},
	{"LY", FactionNeutral},
	{"SO", FactionNeutral},
	{"TZ", FactionNeutral},
	{"AO", FactionNeutral},
	{"NA", FactionNeutral},
	{"ZW", FactionNeutral},
	{"MZ", FactionNeutral},
	{"MG", FactionNeutral},
	{"GH", FactionNeutral},
	{"CI", FactionNeutral},
	{"SN", FactionNeutral},
	{"UG", FactionNeutral},
	{"RW", FactionNeutral},
	{"ZM", FactionNeutral},
	{"CD", FactionNeutral},
	{"CG", FactionNeutral},
	{"CF", FactionNeutral},
	{"GA", FactionNeutral},
	{"CM", FactionNeutral},
	{"NE", FactionNeutral},
	{"TN", FactionNeutral},
	{"MR", FactionNeutral},
	{"BF", FactionNeutral},
	{"GN", FactionNeutral},
	{"LR", FactionNeutral},
	{"SL", FactionNeutral},
	{"TG", FactionNeutral},
	{"BJ", FactionNeutral},
	{"GQ", FactionNeutral},
	{"ER", FactionNeutral},
	{"BW", FactionNeutral},
	{"MW", FactionNeutral},
	{"PH", FactionNeutral},
	{"MY", FactionNeutral},
	{"MM", FactionNeutral},
	{"KH", FactionNeutral},
	{"LA", FactionNeutral},
	{"SG", FactionNeutral},
	{"IQ", FactionNeutral},
	{"JO", FactionNeutral},
	{"KW", FactionNeutral},
	{"LB", FactionNeutral},
	{"OM", FactionNeutral},
	{"QA", FactionNeutral},
	{"YE", FactionNeutral},
	{"GL", FactionNeutral},
	{"NZ", FactionNeutral},
	{"AU", FactionNeutral},
	{"SA", FactionNeutral},
	{"AE", FactionNeutral},
	{"BH", FactionNeutral},
	{"MN", FactionNeutral},
	{"TM", FactionRussia},
	{"UZ", FactionNeutral},
	{"TJ", FactionRussia},
	{"KG", FactionRussia},
	{"AZ", FactionNeutral},
	{"GE", FactionNeutral},
	{"AM", FactionRussia},
	{"NP", FactionNeutral},
	{"BD", FactionNeutral},
	{"BT", FactionNeutral},
	{"LK", FactionNeutral},
	{"BN", FactionNeutral},
	{"TL", FactionNeutral},
	{"TW", FactionUSA},
	{"EH", FactionNeutral},
	{"DJ", FactionNeutral},
	{"BI", FactionNeutral},
	{"SZ", FactionNeutral},
	{"LS", FactionNeutral},
	{"GM", FactionNeutral},
	{"GW", FactionNeutral},
	{"GY", FactionNeutral},
	{"SR", FactionNeutral},
	{"GF", FactionEU},
	{"BZ", FactionNeutral},
	{"TT", FactionNeutral},
	{"PR", FactionUSA},
	{"CY", FactionEU},
	{"MT", FactionEU},
}

var countryNames = map[CountryCode]string{
	"AF": "Afghanistan",
	"AL": "Albania",
	"DZ": "Algeria",
	"AO": "Angola",
	"AR": "Argentina",
	"AT": "Austria",
	"AU": "Australia",
	"AZ": "Azerbaijan",
	"BD": "Bangladesh",
	"BY": "Belarus",
	"BE": "Belgium",
	"BJ": "Benin",
	"BO": "Bolivia",
	"BA": "Bosnia and Herzegovina",
	"BW": "Botswana",
	"BR": "Brazil",
	"BG": "Bulgaria",
	"BF": "Burkina Faso",
	"BI": "Burundi",
	"KH": "Cambodia",
	"CM": "Cameroon",
	"CA": "Canada",
	"CF": "Central African Republic",
	"TD": "Chad",
	"CL": "Chile",
	"CN": "China",
	"CO": "Colombia",
	"CG": "Congo",
	"CD": "Democratic Republic of the Congo",
	"CR": "Costa Rica",
	"HR": "Croatia",
	"CU": "Cuba",
	"CY": "Cyprus",
	"CZ": "Czech Republic",
	"DK": "Denmark",
	"DO": "Dominican Republic",
	"EC": "Ecuador",
	"EG": "Egypt",
	"SV": "El Salvador",
	"GQ": "Equatorial Guinea",
	"ER": "Eritrea",
	"EE": "Estonia",
	"ET": "Ethiopia",
	"FI": "Finland",
	"FR": "France",
	"GA": "Gabon",
	"GM": "Gambia",
	"GE": "Georgia",
	"DE": "Germany",
	"GH": "Ghana",
	"GR": "Greece",
	"GL": "Greenland",
	"GT": "Guatemala",
	"GN": "Guinea",
	"GW": "Guinea-Bissau",
	"GY": "Guyana",
	"HT": "Haiti",
	"HN": "Honduras",
	"HU": "Hungary",
	"IS": "Iceland",
	"IN": "India",
	"ID": "Indonesia",
	"IR": "Iran",
	"IQ": "Iraq",
	"IE": "Ireland",
	"IL": "Israel",
	"IT": "Italy",
	"CI": "Ivory Coast",
	"JM": "Jamaica",
	"JP": "Japan",
	"JO": "Jordan",
	"KZ": "Kazakhstan",
	"KE": "Kenya",
	"XK": "Kosovo",
	"KW": "Kuwait",
	"KG": "Kyrgyzstan",
	"LA": "Laos",
	"LV": "Latvia",
	"LB": "Lebanon",
	"LS": "Lesotho",
	"LR": "Liberia",
	"LY": "Libya",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"MK": "North Macedonia",
	"MG": "Madagascar",
	"MW": "Malawi",
	"MY": "Malaysia",
	"ML": "Mali",
	"MR": "Mauritania",
	"MX": "Mexico",
	"MD": "Moldova",
	"MN": "Mongolia",
	"ME": "Montenegro",
	"MA": "Morocco",
	"MZ": "Mozambique",
	"MM": "Myanmar",
	"NA": "Namibia",
	"NP": "Nepal",
	"NL": "Netherlands",
	"NZ": "New Zealand",
	"NI": "Nicaragua",
	"NE": "Niger",
	"NG": "Nigeria",
	"KP": "North Korea",
	"NO": "Norway",
	"OM": "Oman",
	"PK": "Pakistan",
	"PS": "Palestine",
	"PA": "Panama",
	"PG": "Papua New Guinea",
	"PY": "Paraguay",
	"PE": "Peru",
	"PH": "Philippines",
	"PL": "Poland",
	"PT": "Portugal",
	"QA": "Qatar",
	"RO": "Romania",
	"RU": "Russia",
	"RW": "Rwanda",
	"SA": "Saudi Arabia",
	"SN": "Senegal",
	"RS": "Serbia",
	"SL": "Sierra Leone",
	"SG": "Singapore",
	"SK": "Slovakia",
	"SI": "Slovenia",
	"SB": "Solomon Islands",
	"SO": "Somalia",
	"ZA": "South Africa",
	"KR": "South Korea",
	"SS": "South Sudan",
	"ES": "Spain",
	"LK": "Sri Lanka",
	"SD": "Sudan",
	"SR": "Suriname",
	"SE": "Sweden",
	"CH": "Switzerland",
	"SY": "Syria",
	"TW": "Taiwan",
	"TJ": "Tajikistan",
	"TZ": "Tanzania",
	"TH": "Thailand",
	"TL": "Timor-Leste",
	"TG": "Togo",
	"TN": "Tunisia",
	"TR": "Turkey",
	"TM": "Turkmenistan",
	"UG": "Uganda",
	"UA": "Ukraine",
	"AE": "United Arab Emirates",
	"GB": "United Kingdom",
	"US": "United States",
	"UY": "Uruguay",
	"UZ": "Uzbekistan",
	"VE": "Venezuela",
	"VN": "Vietnam",
	"YE": "Yemen",
	"ZM": "Zambia",
	"ZW": "Zimbabwe",
}
