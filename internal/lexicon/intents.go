package lexicon

import (
	"github.com/sofialabs/sofia/pkg/types"
)

// Intent patterns run against the lower-cased message. Category order is
// significant: the first category to match supplies the primary intent when
// several categories fire.
func intentTable() []IntentPatterns {
	return []IntentPatterns{
		{Intent: types.IntentDestinationInquiry, Patterns: compileAll([]string{
			`\b(where|destination|place|country|city|visit|go|travel to|head to|fly to)\b`,
			`\b(recommend|suggest|best|good|top|favorite|amazing|incredible)\b.*\b(place|destination|country|city|spot|location)\b`,
			`\b(thinking about|considering|planning|want to|looking to|hoping to)\b.*\b(trip|travel|visit|vacation|journey|adventure)\b`,
			`\b(should i go|worth visiting|tell me about|know about|heard about)\b`,
			`\b(which country|what country|which city|what city|which place|what place)\b`,
			`\b(where would you|where do you|any ideas for|suggestions for)\b.*\b(travel|trip|vacation)\b`,
			`\b(choose between|deciding between|torn between|can't decide)\b.*\b(destination|place|country)\b`,
			`\b(first time|never been|always wanted)\b.*\b(visit|go|travel)\b`,
		})},
		{Intent: types.IntentActivityRequest, Patterns: compileAll([]string{
			`\b(what.*do|what.*see|what.*visit|what.*experience|what.*try)\b`,
			`\b(activities|things to do|attractions|sightseeing|must see|must do|highlights)\b`,
			`\b(fun|interesting|exciting|cool|awesome|amazing)\b.*\b(do|see|visit|experience|try)\b`,
			`\b(museums|galleries|restaurants|cafes|bars|nightlife|shopping|markets|hiking|beaches|parks)\b`,
			`\b(tours|excursions|day trips|experiences|adventures|cultural|historic|scenic)\b`,
			`\b(activity|activities|entertainment|recreation)\b.*\b(suggestions|recommend|ideas)\b`,
			`\b(keep me busy|things to see|worth doing|can't miss|bucket list)\b`,
			`\b(local spots|hidden gems|off beaten path|authentic|traditional)\b`,
			`\b(family friendly|romantic|solo travel|group)\b.*\b(activities|things|spots)\b`,
			`\b(food scene|art scene|music scene|outdoor|nature|history|architecture)\b`,
			`\b(photography|instagram|photos|scenic|beautiful|stunning)\b.*\b(spots|places|views)\b`,
		})},
		{Intent: types.IntentWeatherCheck, Patterns: compileAll([]string{
			`\b(weather|temperature|climate|conditions|forecast)\b`,
			`\b(rain|sunny|cloudy|cold|hot|warm|cool|humid|dry|windy)\b`,
			`\b(degrees|celsius|fahrenheit|°c|°f)\b`,
			`\b(best time|when to visit|good time|right time|season|seasonal)\b`,
			`\b(spring|summer|fall|autumn|winter|january|february|march|april|may|june|july|august|september|october|november|december)\b`,
			`\b(rainy season|dry season|monsoon|hurricane|typhoon)\b`,
			`\b(pack|packing|clothing|clothes|what to wear|dress|outfit)\b`,
			`\b(jacket|coat|shorts|sandals|boots|umbrella|sunscreen)\b`,
			`\b(too hot|too cold|comfortable|pleasant|avoid|unbearable)\b.*\b(weather|temperature|climate)\b`,
		})},
		{Intent: types.IntentCulturalInfo, Patterns: compileAll([]string{
			`\b(culture|cultural|customs|traditions|etiquette|manners|protocol)\b`,
			`\b(people|locals|society|community|lifestyle|way of life)\b`,
			`\b(history|historical|heritage|ancient|traditional|indigenous)\b`,
			`\b(language|speak|dialect|communication|translate|interpreter)\b`,
			`\b(religion|religious|spiritual|beliefs|ceremonies|temples|churches)\b`,
			`\b(festivals|celebrations|holidays|events|carnival|parade)\b`,
			`\b(should i know|need to know|be aware|respectful|appropriate|inappropriate)\b`,
			`\b(taboo|forbidden|offensive|rude|polite|courtesy|respect)\b`,
			`\b(dress code|conservative|modest|formal|casual)\b`,
			`\b(local customs|local way|how locals|local culture|authentic|genuine)\b`,
			`\b(social norms|cultural norms|expectations|behavior)\b`,
		})},
		{Intent: types.IntentPracticalAdvice, Patterns: compileAll([]string{
			`\b(visa|passport|documents|paperwork|requirements|permit|authorization)\b`,
			`\b(id|identification|travel documents|embassy|consulate)\b`,
			`\b(transportation|transport|getting around|how to get|travel within)\b`,
			`\b(airport|train|bus|metro|subway|taxi|uber|rental car|public transport)\b`,
			`\b(flights|airlines|booking|tickets|connections|layover)\b`,
			`\b(safety|safe|secure|dangerous|risky|crime|scam|theft|pickpocket)\b`,
			`\b(emergency|help|police|hospital|insurance|medical)\b`,
			`\b(precautions|careful|aware|avoid|sketchy|unsafe)\b`,
			`\b(money|currency|exchange|atm|bank|credit card|cash|payment)\b`,
			`\b(tip|tipping|gratuity|service charge|tax)\b`,
			`\b(internet|wifi|phone|sim card|data|roaming|calling)\b`,
			`\b(plug|adapter|voltage|charger|electronics)\b`,
			`\b(hotel|hostel|airbnb|accommodation|where to stay|booking|reservation)\b`,
			`\b(shots|vaccination|immunization|health|medical|water|food safety)\b`,
			`\b(what to watch out for|scams|avoid|careful|sketchy)\b`,
		})},
		{Intent: types.IntentBudgetPlanning, Patterns: compileAll([]string{
			`\b(cost|costs|price|prices|expensive|cheap|affordable|budget|money)\b`,
			`\b(how much|spend|spending|expense|financial|economical)\b`,
			`\b(dollars|euros|pounds|yen|currency|exchange rate)\b`,
			`\b(budget|budgeting|financial planning|cost breakdown|estimate)\b`,
			`\b(daily cost|per day|weekly|monthly|total cost)\b`,
			`\b(save money|cut costs|economical|frugal|backpacker|luxury)\b`,
			`\b(food cost|meal prices|restaurant prices|street food)\b`,
			`\b(accommodation cost|hotel prices|hostel prices)\b`,
			`\b(transport cost|flight cost|train prices|bus fares)\b`,
			`\b(attraction prices|museum fees|tour costs|activity prices)\b`,
			`\b(worth it|value|bang for buck|overpriced|reasonable|fair price)\b`,
			`\b(compare costs|cheaper alternative|budget option|splurge)\b`,
			`\b(break the bank|damage|pricey|dirt cheap|costs a fortune)\b`,
			`\b(on a dime|shoestring|tight budget|money tight)\b`,
		})},
		{Intent: types.IntentPackingHelp, Patterns: compileAll([]string{
			`\b(pack|packing|bring|take|luggage|suitcase|backpack|bag)\b`,
			`\b(what to pack|packing list|essentials|must bring|necessary)\b`,
			`\b(clothes|clothing|outfit|dress|wear|wardrobe)\b`,
			`\b(shirts|pants|dress|jacket|coat|shoes|sandals|boots)\b`,
			`\b(underwear|socks|pajamas|swimwear|formal|casual)\b`,
			`\b(toiletries|cosmetics|shampoo|toothbrush|medication)\b`,
			`\b(camera|charger|adapter|electronics|phone|laptop)\b`,
			`\b(documents|passport|tickets|insurance|copies)\b`,
			`\b(light|minimal|overpacking|weight limit|carry on|checked)\b`,
			`\b(forgot|forgotten|leave behind|don't need|unnecessary)\b`,
			`\b(warm weather|cold weather|tropical|winter gear|summer clothes)\b`,
			`\b(gear|equipment|essentials|must have|need)\b`,
		})},
	}
}

// Implicit patterns fire only when the session already has an established
// destination, inferring intent from bare mentions like "how's it there".
var implicitWeatherPatterns = []string{
	`\bweather\b`,
	`\bhow's\b.*\bthere\b`,
	`\btemperature\b`,
	`\bcold\b`,
	`\bhot\b`,
	`\bwarm\b`,
	`\brain\b`,
	`\bsunny\b`,
	`\bwhat's.*like\b.*\bthere\b`,
	`\bclimate\b`,
	`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`,
	`\bweather.*in\b.*\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`,
}

var implicitActivityPatterns = []string{
	`\bthere\b`,
	`\bwhat.*do\b`,
	`\bgood\b`,
	`\bbest\b`,
	`\brecommend\b`,
	`\bsuggestion\b`,
	`\bvisit\b`,
}
