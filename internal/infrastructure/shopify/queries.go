package shopify

// Operation pairs a static GraphQL document with the operation name used as
// its cache namespace.
type Operation struct {
	Name     string
	Document string
}

// productFields is the full product selection shared by list and detail queries.
const productFields = `
fragment ProductFields on Product {
  id
  title
  productType
  handle
  description
  vendor
  tags
  publishedAt
  seo {
    title
    description
  }
  priceRange {
    minVariantPrice {
      amount
      currencyCode
    }
    maxVariantPrice {
      amount
      currencyCode
    }
  }
  images(first: 10) {
    edges {
      node {
        id
        url
        altText
        width
        height
      }
    }
  }
  variants(first: 10) {
    edges {
      node {
        id
        title
        sku
        price {
          amount
          currencyCode
        }
        compareAtPrice {
          amount
          currencyCode
        }
        availableForSale
        quantityAvailable
        image {
          url
          altText
        }
        selectedOptions {
          name
          value
        }
      }
    }
  }
  collections(first: 5) {
    edges {
      node {
        id
        title
        handle
      }
    }
  }
}
`

// cartFields is the cart selection shared by the cart read and every cart mutation.
const cartFields = `
fragment CartFields on Cart {
  id
  checkoutUrl
  createdAt
  updatedAt
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            sku
            price {
              amount
              currencyCode
            }
            availableForSale
            image {
              url
              altText
            }
            selectedOptions {
              name
              value
            }
            product {
              id
              title
              handle
              images(first: 1) {
                edges {
                  node {
                    url
                    altText
                  }
                }
              }
            }
          }
        }
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
      }
    }
  }
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
  }
}
`

var OpGetShop = Operation{
	Name: "GetShop",
	Document: `
query GetShop {
  shop {
    name
    description
    currencyCode
    primaryDomain {
      url
      host
    }
    paymentSettings {
      acceptedCardBrands
    }
  }
}
`,
}

var OpGetProducts = Operation{
	Name: "GetProducts",
	Document: `
query GetProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      node {
        ...ProductFields
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}
` + productFields,
}

var OpGetProductByHandle = Operation{
	Name: "GetProductByHandle",
	Document: `
query GetProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {
    ...ProductFields
  }
}
` + productFields,
}

var OpGetCollections = Operation{
	Name: "GetCollections",
	Document: `
query GetCollections($first: Int!) {
  collections(first: $first) {
    edges {
      node {
        id
        title
        handle
        description
        image {
          url
          altText
        }
      }
    }
  }
}
`,
}

var OpSearchProducts = Operation{
	Name: "SearchProducts",
	Document: `
query SearchProducts($query: String!, $first: Int!) {
  search(first: $first, query: $query, types: PRODUCT) {
    edges {
      node {
        ... on Product {
          ...ProductFields
        }
      }
    }
  }
}
` + productFields,
}

var OpGetCart = Operation{
	Name: "GetCart",
	Document: `
query GetCart($cartId: ID!) {
  cart(id: $cartId) {
    ...CartFields
  }
}
` + cartFields,
}

var OpCartCreate = Operation{
	Name: "CartCreate",
	Document: `
mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFields,
}

var OpCartLinesAdd = Operation{
	Name: "CartLinesAdd",
	Document: `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFields,
}

var OpCartLinesUpdate = Operation{
	Name: "CartLinesUpdate",
	Document: `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFields,
}

var OpCartLinesRemove = Operation{
	Name: "CartLinesRemove",
	Document: `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFields,
}
